package model

// TerritoryStatus indica a situação atual de um território.
type TerritoryStatus string

const (
	StatusAvailable TerritoryStatus = "Available"
	StatusOccupied  TerritoryStatus = "Occupied"
)

// HistoryAction identifica o tipo de movimentação registrada no histórico.
type HistoryAction string

const (
	ActionTaken    HistoryAction = "Saiu"
	ActionReturned HistoryAction = "Devolvido"
)

// Role define o papel de um usuário na congregação.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePublisher Role = "publisher"
)

// Territory representa uma unidade numerada de território designável.
type Territory struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Status         TerritoryStatus `json:"status"`
	PublisherName  string          `json:"publisherName,omitempty"`
	PublisherID    string          `json:"publisherId,omitempty"`
	LastWorked     string          `json:"lastWorked,omitempty"`
	ImageURL       string          `json:"imageUrl"`
	GoogleMapsLink string          `json:"googleMapsLink,omitempty"`
	Observations   string          `json:"observations"`
	DrawingData    string          `json:"drawingData,omitempty"`
}

// HistoryLog registra uma movimentação de território. Os nomes são capturados
// no momento da transição e nunca reapontam para os registros vivos.
type HistoryLog struct {
	ID            string        `json:"id"`
	TerritoryName string        `json:"territoryName"`
	PublisherName string        `json:"publisherName"`
	Action        HistoryAction `json:"action"`
	Date          string        `json:"date"`
	Timestamp     int64         `json:"timestamp"`
}

// Congregation guarda as configurações da congregação.
type Congregation struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TerritoryCount int    `json:"territoryCount"`
	AdminID        string `json:"adminId"`
}

// User representa um publicador ou administrador conhecido pela congregação.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	JoinedAt string `json:"joinedAt"`
}
