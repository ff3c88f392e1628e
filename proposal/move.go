// Package proposal selects the next move (add, delete or swap) and its
// Hastings jump-ratio correction from the current RuleSet, following the
// fixed move-probability table the spec assigns to each (m, nrules)
// regime. Grounded on the teacher's weighted-operator selection in
// prog.Mutate (github.com/google/syzkaller/prog/mutation.go), reduced from
// six weighted program-mutation operators to the three list-edit moves
// this spec defines.
package proposal

// Move is the tagged union of proposal kinds (spec.md §9 recommends a
// tagged variant over a character tag).
type Move interface{ isMove() }

// Swap exchanges the rules at positions I and J, neither the default.
type Swap struct{ I, J int }

// Add inserts RuleID at Position.
type Add struct {
	RuleID   int
	Position int
}

// Delete removes the non-default rule at Position.
type Delete struct{ Position int }

func (Swap) isMove()   {}
func (Add) isMove()    {}
func (Delete) isMove() {}
