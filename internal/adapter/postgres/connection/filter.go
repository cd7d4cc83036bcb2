package connection

const (
	defaultLimit = 50
	maxLimit     = 200
)

// clampPage applies listing defaults and bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
