package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/territoriodigital/congregacao/internal/model"
	"github.com/territoriodigital/congregacao/internal/util"
)

// dateLayout é o formato pt-BR usado em todas as datas visíveis ao usuário.
const dateLayout = "02/01/2006"

// Config descreve o estado inicial da congregação.
type Config struct {
	CongregationID   string
	CongregationName string
	TerritoryCount   int
	DefaultImageURL  string
	BaseURL          string
}

// ConfigUpdate carrega alterações parciais de configuração de um território.
// Campos nil permanecem intocados; ponteiro para string vazia limpa o campo.
type ConfigUpdate struct {
	ImageURL       *string `json:"imageUrl"`
	GoogleMapsLink *string `json:"googleMapsLink"`
	DrawingData    *string `json:"drawingData"`
}

// Store é o dono exclusivo de todo o estado mutável da sessão: usuário atual,
// lista de usuários, territórios, histórico e configurações da congregação.
// Cada operação aplica por completo sob o lock antes de qualquer observador
// enxergar o resultado. O sistema é de sessão única: existe no máximo um
// usuário logado por vez, e toda transição de território age em nome dele.
type Store struct {
	mu sync.RWMutex

	now   func() time.Time
	newID func() string

	baseURL         string
	defaultImageURL string

	user         *model.User
	users        []model.User
	territories  []model.Territory
	history      []model.HistoryLog
	congregation model.Congregation

	subscribers []func()
}

// New cria o Store com os territórios iniciais, todos disponíveis.
func New(cfg Config) *Store {
	s := &Store{
		now:             time.Now,
		newID:           util.NewID,
		baseURL:         cfg.BaseURL,
		defaultImageURL: cfg.DefaultImageURL,
		congregation: model.Congregation{
			ID:             cfg.CongregationID,
			Name:           cfg.CongregationName,
			TerritoryCount: cfg.TerritoryCount,
		},
	}
	s.territories = seedTerritories(cfg.TerritoryCount, cfg.DefaultImageURL)
	return s
}

func seedTerritories(count int, imageURL string) []model.Territory {
	territories := make([]model.Territory, 0, count)
	for i := 1; i <= count; i++ {
		territories = append(territories, newTerritory(i, imageURL))
	}
	return territories
}

func newTerritory(id int, imageURL string) model.Territory {
	return model.Territory{
		ID:       id,
		Name:     strconv.Itoa(id),
		Status:   model.StatusAvailable,
		ImageURL: imageURL,
	}
}

// Subscribe registra um callback chamado após cada mutação concluída. Os
// callbacks executam fora do lock, na goroutine que realizou a mutação.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Login define o usuário da sessão. O id é derivado do e-mail; se a lista de
// usuários estiver vazia ou isAdmin for explícito, o usuário vira o
// administrador da congregação. A inclusão na lista é idempotente por id.
func (s *Store) Login(name, email string, isAdmin bool) model.User {
	s.mu.Lock()

	role := model.RolePublisher
	if isAdmin {
		role = model.RoleAdmin
	}

	u := model.User{
		ID:       util.UserIDFromEmail(email),
		Name:     name,
		Email:    email,
		Role:     role,
		JoinedAt: s.now().Format(dateLayout),
	}

	s.user = &u

	if len(s.users) == 0 || isAdmin {
		s.congregation.AdminID = u.ID
	}

	known := false
	for _, existing := range s.users {
		if existing.ID == u.ID {
			known = true
			break
		}
	}
	if !known {
		s.users = append(s.users, u)
	}

	s.mu.Unlock()
	s.notify()
	return u
}

// Logout encerra a sessão atual. Usuários, territórios e histórico permanecem.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.notify()
}

// CurrentUser devolve o usuário da sessão, se houver.
func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// UpdateUser renomeia o usuário da sessão, refletindo na lista da congregação.
func (s *Store) UpdateUser(name string) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user.Name = name
	for i := range s.users {
		if s.users[i].ID == s.user.ID {
			s.users[i].Name = name
		}
	}
	s.mu.Unlock()
	s.notify()
}

// RemoveUser exclui um usuário da lista. Remover a si mesmo é um no-op
// silencioso.
func (s *Store) RemoveUser(id string) {
	s.mu.Lock()
	if s.user != nil && s.user.ID == id {
		s.mu.Unlock()
		return
	}
	filtered := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			filtered = append(filtered, u)
		}
	}
	s.users = filtered
	s.mu.Unlock()
	s.notify()
}

// Users devolve uma cópia da lista de usuários da congregação.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// Territories devolve uma cópia da lista de territórios.
func (s *Store) Territories() []model.Territory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Territory, len(s.territories))
	copy(out, s.territories)
	return out
}

// Territory busca um território pelo id.
func (s *Store) Territory(id int) (model.Territory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.territories {
		if t.ID == id {
			return t, true
		}
	}
	return model.Territory{}, false
}

// UpdateTerritoryStatus aplica uma transição de designação. Sem usuário
// logado a chamada é um no-op silencioso: nada muda e nada é registrado.
//
// Occupied: grava publicador e lastWorked e registra "Saiu". Available:
// limpa publicador e desenho (lastWorked fica) e registra "Devolvido". Cada
// registro novo entra no início do histórico.
func (s *Store) UpdateTerritoryStatus(id int, status model.TerritoryStatus) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}

	changed := false
	for i := range s.territories {
		t := &s.territories[i]
		if t.ID != id {
			continue
		}

		now := s.now()
		entry := model.HistoryLog{
			ID:            s.newID(),
			TerritoryName: t.Name,
			PublisherName: s.user.Name,
			Date:          now.Format(dateLayout),
			Timestamp:     now.UnixMilli(),
		}

		if status == model.StatusOccupied {
			entry.Action = model.ActionTaken
			t.Status = model.StatusOccupied
			t.PublisherName = s.user.Name
			t.PublisherID = s.user.ID
			t.LastWorked = now.Format(dateLayout)
		} else {
			entry.Action = model.ActionReturned
			t.Status = model.StatusAvailable
			t.PublisherName = ""
			t.PublisherID = ""
			t.DrawingData = ""
		}

		s.history = append([]model.HistoryLog{entry}, s.history...)
		changed = true
		break
	}

	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// UpdateObservation substitui as observações de um território.
func (s *Store) UpdateObservation(id int, text string) {
	s.mu.Lock()
	for i := range s.territories {
		if s.territories[i].ID == id {
			s.territories[i].Observations = text
		}
	}
	s.mu.Unlock()
	s.notify()
}

// UpdateTerritoryConfig aplica uma atualização parcial de imagem, link de
// mapa ou desenho. Campos nil não são tocados.
func (s *Store) UpdateTerritoryConfig(id int, upd ConfigUpdate) {
	s.mu.Lock()
	for i := range s.territories {
		t := &s.territories[i]
		if t.ID != id {
			continue
		}
		if upd.ImageURL != nil {
			t.ImageURL = *upd.ImageURL
		}
		if upd.GoogleMapsLink != nil {
			t.GoogleMapsLink = *upd.GoogleMapsLink
		}
		if upd.DrawingData != nil {
			t.DrawingData = *upd.DrawingData
		}
	}
	s.mu.Unlock()
	s.notify()
}

// UpdateCongregationSettings renomeia a congregação e redimensiona a lista de
// territórios. Crescer acrescenta territórios disponíveis com ids sequenciais;
// encolher trunca do fim e descarta os dados truncados sem confirmação.
func (s *Store) UpdateCongregationSettings(name string, count int) {
	s.mu.Lock()
	s.congregation.Name = name
	s.congregation.TerritoryCount = count

	current := len(s.territories)
	switch {
	case count > current:
		for id := current + 1; id <= count; id++ {
			s.territories = append(s.territories, newTerritory(id, s.defaultImageURL))
		}
	case count < current:
		s.territories = s.territories[:count]
	}
	s.mu.Unlock()
	s.notify()
}

// Congregation devolve as configurações atuais da congregação.
func (s *Store) Congregation() model.Congregation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.congregation
}

// History devolve o histórico, mais recente primeiro.
func (s *Store) History() []model.HistoryLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.HistoryLog, len(s.history))
	copy(out, s.history)
	return out
}

// InviteLink monta o link de convite com o id da congregação. Operação pura.
func (s *Store) InviteLink() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL + "#/register?invite=" + s.congregation.ID
}
