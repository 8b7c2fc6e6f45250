package rbac

// Authorize decides allow/deny for one operation. requirement is one or
// more permission codes; with requireAll=true every code must be in the
// user's effective set, otherwise one match is enough. A nil return means
// allow.
//
// The effective set is resolved fresh on every call. Caching it across
// requests would let a revoked permission keep working, so there is none.
func (s *Service) Authorize(userID uint, requirement []string, requireAll bool) error {
	if userID == 0 {
		return ErrAuthenticationRequired
	}
	if len(requirement) == 0 {
		return nil
	}

	codes, err := s.EffectiveCodes(userID)
	if err != nil {
		return err
	}

	if requireAll {
		for _, code := range requirement {
			if _, ok := codes[code]; !ok {
				return ErrInsufficientPermissions
			}
		}
		return nil
	}

	for _, code := range requirement {
		if _, ok := codes[code]; ok {
			return nil
		}
	}
	return ErrInsufficientPermissions
}
