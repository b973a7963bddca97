package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/territoriodigital/congregacao/internal/model"
	"github.com/territoriodigital/congregacao/internal/util"
)

// ErrInvalidBackup indica documento de backup que não pôde ser interpretado.
var ErrInvalidBackup = errors.New("arquivo de backup inválido")

// BackupDocument é o formato de exportação/importação do estado completo.
// Na restauração, campos ausentes do documento deixam a coleção atual
// intocada; por isso as coleções são ponteiros.
type BackupDocument struct {
	Timestamp    string              `json:"timestamp"`
	Congregation *model.Congregation `json:"congregation,omitempty"`
	Users        *[]model.User       `json:"users,omitempty"`
	Territories  *[]model.Territory  `json:"territories,omitempty"`
	History      *[]model.HistoryLog `json:"history,omitempty"`
}

// Backup captura o estado completo do momento em um documento exportável.
func (s *Store) Backup() BackupDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	congregation := s.congregation
	users := make([]model.User, len(s.users))
	copy(users, s.users)
	territories := make([]model.Territory, len(s.territories))
	copy(territories, s.territories)
	history := make([]model.HistoryLog, len(s.history))
	copy(history, s.history)

	return BackupDocument{
		Timestamp:    s.now().UTC().Format(time.RFC3339),
		Congregation: &congregation,
		Users:        &users,
		Territories:  &territories,
		History:      &history,
	}
}

// BackupFilename devolve o nome de arquivo do backup no padrão
// backup-<nome-da-congregacao>-<AAAA-MM-DD>.json.
func (s *Store) BackupFilename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return "backup-" + util.Slugify(s.congregation.Name) + "-" + s.now().UTC().Format("2006-01-02") + ".json"
}

// Restore sobrescreve o estado com o conteúdo do documento. O parse acontece
// por inteiro antes de qualquer mutação: JSON malformado devolve
// ErrInvalidBackup e nada muda. Chaves presentes substituem a coleção
// correspondente por atacado; não há validação de schema nem de integridade
// referencial entre territórios, usuários e histórico.
func (s *Store) Restore(data []byte) error {
	var doc BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ErrInvalidBackup
	}

	s.mu.Lock()
	if doc.Congregation != nil {
		s.congregation = *doc.Congregation
	}
	if doc.Territories != nil {
		s.territories = *doc.Territories
	}
	if doc.History != nil {
		s.history = *doc.History
	}
	if doc.Users != nil {
		s.users = *doc.Users
	}
	s.mu.Unlock()
	s.notify()
	return nil
}
