package limiter

// static allow-list of actor identifiers excluded from all limiting.
// exempt traffic skips checks and mutation and writes no ledger entry,
// so it is invisible to accounting.
type exemptList map[string]struct{}

func newExemptList(ids []string) exemptList {
	list := make(exemptList, len(ids))

	for _, id := range ids {
		if id != "" {
			list[id] = struct{}{}
		}
	}

	return list
}

// reports whether the actor's identifier is on the allow-list
func (l exemptList) isExempt(actor Actor) bool {
	_, ok := l[actor.Ref()]
	return ok
}
