package ledger

// Account is the slice of a user record the sharing resolver needs: the
// account id and the ids it lists in its sharedWith set.
type Account struct {
	ID         string
	SharedWith []string
}

// ResolveVisibleOwners expands a primary account id into the set of owner
// ids whose transactions are merged for that user's balance view.
//
// The relation is intended to be symmetric but may not be, so a single
// hop is resolved in both directions: an account is visible if the
// primary lists it, or if it lists the primary. There is no multi-hop
// propagation — a collaborator's collaborator stays invisible.
//
// The result always contains primaryID and is deduplicated; order carries
// no meaning.
func ResolveVisibleOwners(primaryID string, accounts []Account) []string {
	seen := map[string]bool{primaryID: true}
	owners := []string{primaryID}

	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			owners = append(owners, id)
		}
	}

	for _, a := range accounts {
		if a.ID == primaryID {
			for _, id := range a.SharedWith {
				add(id)
			}
			continue
		}
		for _, id := range a.SharedWith {
			if id == primaryID {
				add(a.ID)
				break
			}
		}
	}

	return owners
}
