package anim

// Scheduler owns the active animation units and advances them once per
// physics tick.
//
// There is no ordering guarantee between independent units in the same tick.
type Scheduler struct {
	active []*Unit
	spare  []*Unit
}

// Add activates u. Units added while StepAll is running are first stepped on
// the following call.
func (s *Scheduler) Add(u *Unit) {
	if u == nil {
		return
	}
	s.active = append(s.active, u)
}

// Stop cancels u. It is dropped at the next StepAll without being stepped
// and without activating its successors.
func (s *Scheduler) Stop(u *Unit) {
	if u != nil {
		u.Stop()
	}
}

// StepAll steps every unit that was active when the call started. Finished
// units are removed; successors of naturally finished units join the active
// list and are first stepped on the next call.
func (s *Scheduler) StepAll() {
	current := s.active
	// Build the next generation instead of splicing in place. Add calls made
	// by step functions append to it too.
	s.active = s.spare[:0]

	var chained []*Unit
	for _, u := range current {
		if !u.Step() {
			s.active = append(s.active, u)
			continue
		}
		if !u.Stopped() {
			chained = append(chained, u.next...)
		}
	}
	s.active = append(s.active, chained...)

	clear(current)
	s.spare = current[:0]
}

// Len returns the number of active units.
func (s *Scheduler) Len() int {
	return len(s.active)
}

// Clear drops every active unit without stepping it.
func (s *Scheduler) Clear() {
	clear(s.active)
	s.active = s.active[:0]
}
