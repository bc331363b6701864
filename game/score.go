package game

// Score accumulates the points of won rounds.
type Score struct {
	points int
	won    int
	lost   int
}

// Add records a won round worth points.
func (s *Score) Add(points int) {
	s.points += points
	s.won++
}

// Miss records a lost round.
func (s *Score) Miss() {
	s.lost++
}

// Points returns the running total.
func (s *Score) Points() int { return s.points }

// Won returns the number of rounds won.
func (s *Score) Won() int { return s.won }

// Lost returns the number of rounds lost.
func (s *Score) Lost() int { return s.lost }

// Reset clears the score.
func (s *Score) Reset() { *s = Score{} }
