package calc

// Step is the state after one recognised key of a replay.
type Step struct {
	Key   string
	State State
}

// ReplayResult is the outcome of Replay.
type ReplayResult struct {
	Final   State
	Steps   []Step
	Ignored int
}

// Replay runs key names through the accumulator from the initial state.
// Unrecognised keys are counted and skipped. A pending error revert is
// applied before the next key is processed, as if the user waited for the
// error to clear; an error raised by the final key stays in Final.
func (a *Accumulator) Replay(keys []string) ReplayResult {
	res := ReplayResult{Final: Initial(), Steps: make([]Step, 0, len(keys))}

	var pending *State
	for _, key := range keys {
		in, ok := ParseKey(key)
		if !ok {
			res.Ignored++
			continue
		}
		if pending != nil {
			res.Final = *pending
			pending = nil
		}

		t := a.Apply(res.Final, in)
		res.Final = t.State
		pending = t.Revert
		res.Steps = append(res.Steps, Step{Key: key, State: t.State})
	}
	return res
}
