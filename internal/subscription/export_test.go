// AngelaMos | 2026
// export_test.go

package subscription

import "time"

func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}
