package bot

import "fmt"

var names = []string{"Rex", "Spike", "Trixie", "Chomp", "Cera", "Raptor", "Stego", "Pterry"}

// Identity returns the id and display name for the n-th bot created in a room.
// Names cycle once the list is exhausted; ids never repeat.
func Identity(n int) (id, name string) {
	return fmt.Sprintf("bot-%d", n), names[n%len(names)]
}
