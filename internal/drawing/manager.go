package drawing

import (
	"errors"
	"sync"

	"github.com/territoriodigital/congregacao/internal/model"
	"github.com/territoriodigital/congregacao/internal/store"
)

// ErrTerritoryNotFound indica território inexistente.
var ErrTerritoryNotFound = errors.New("desenho: território não encontrado")

// ErrNoSurface indica que não há superfície aberta para o território.
var ErrNoSurface = errors.New("desenho: superfície não aberta")

// Manager controla as superfícies de desenho ativas, no máximo uma por
// território. Abrir de novo descarta a superfície anterior e recomeça do
// desenho salvo, espelhando a reinicialização do canvas ao entrar em tela
// cheia.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	surfaces map[int]*Surface
}

// NewManager cria o gerenciador ligado ao Store.
func NewManager(st *store.Store) *Manager {
	return &Manager{
		store:    st,
		surfaces: make(map[int]*Surface),
	}
}

// Open cria (ou recria) a superfície do território com as dimensões dadas,
// restaurando o desenho salvo antes de aceitar traços.
func (m *Manager) Open(territoryID, width, height int) (*Surface, error) {
	t, ok := m.store.Territory(territoryID)
	if !ok {
		return nil, ErrTerritoryNotFound
	}

	occupied := func() bool {
		current, ok := m.store.Territory(territoryID)
		return ok && current.Status == model.StatusOccupied
	}
	save := func(dataURL string) {
		m.store.UpdateTerritoryConfig(territoryID, store.ConfigUpdate{DrawingData: &dataURL})
	}

	surface, err := NewSurface(width, height, t.DrawingData, occupied, save)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.surfaces[territoryID] = surface
	m.mu.Unlock()
	return surface, nil
}

// Surface devolve a superfície aberta do território, se existir.
func (m *Manager) Surface(territoryID int) (*Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	surface, ok := m.surfaces[territoryID]
	if !ok {
		return nil, ErrNoSurface
	}
	return surface, nil
}

// Clear apaga o desenho do território. Com superfície aberta, limpa o bitmap
// e o dado salvo; sem superfície, anula apenas o dado salvo.
func (m *Manager) Clear(territoryID int) error {
	if _, ok := m.store.Territory(territoryID); !ok {
		return ErrTerritoryNotFound
	}

	m.mu.Lock()
	surface, open := m.surfaces[territoryID]
	m.mu.Unlock()

	if open {
		surface.Clear()
		return nil
	}

	empty := ""
	m.store.UpdateTerritoryConfig(territoryID, store.ConfigUpdate{DrawingData: &empty})
	return nil
}

// Close descarta a superfície aberta do território, se houver. Nada é salvo:
// a persistência acontece a cada fim de traço.
func (m *Manager) Close(territoryID int) {
	m.mu.Lock()
	delete(m.surfaces, territoryID)
	m.mu.Unlock()
}
