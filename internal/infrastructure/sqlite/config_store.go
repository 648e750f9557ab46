package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ConfigStore clave→valor local (tabla config). Guarda metadatos propios del
// dispositivo que no se sincronizan, como su identificador estable.
type ConfigStore struct {
	q Querier
}

func NewConfigStore(q Querier) *ConfigStore {
	return &ConfigStore{q: q}
}

// Get devuelve el valor de la clave, o "" si no existe.
func (s *ConfigStore) Get(key string) (string, error) {
	var v string
	err := s.q.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return v, nil
}

// Set inserta o reemplaza el valor de la clave.
func (s *ConfigStore) Set(key, value string) error {
	query := `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := s.q.Exec(query, key, value); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

// DeviceID devuelve el identificador estable del dispositivo, generándolo y
// persistiéndolo en el primer arranque. Sirve para distinguir orígenes en los
// logs de una flota de dispositivos que sincronizan contra el mismo remoto.
func (s *ConfigStore) DeviceID() (string, error) {
	id, err := s.Get("device_id")
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.New().String()
	if err := s.Set("device_id", id); err != nil {
		return "", err
	}
	return id, nil
}
