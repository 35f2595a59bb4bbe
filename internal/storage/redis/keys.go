package redis

import "fmt"

// key returns the namespaced Redis key for a logical storage key
func (s *Storage) key(k string) string {
	if s.cfg.KeyPrefix == "" {
		return k
	}
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, k)
}
