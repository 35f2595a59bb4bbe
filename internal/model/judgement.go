package model

import "fmt"

// MaxScore bounds the magnitude of a single judged score
const MaxScore = 100

// Judgement is a scored assessment of a free-text answer
type Judgement struct {
	Persuasiveness    int    `json:"persuasiveness"`
	Politeness        int    `json:"politeness"`
	Logic             int    `json:"logic"`
	ClientOrientation int    `json:"clientOrientation"`
	Satisfaction      int    `json:"satisfaction"`
	Feedback          string `json:"feedback"`
	Score             int    `json:"score"`
}

// Validate rejects judgements outside the documented ranges
func (j Judgement) Validate() error {
	metrics := map[string]int{
		"persuasiveness":    j.Persuasiveness,
		"politeness":        j.Politeness,
		"logic":             j.Logic,
		"clientOrientation": j.ClientOrientation,
		"satisfaction":      j.Satisfaction,
	}
	for name, v := range metrics {
		if v < 0 || v > 10 {
			return fmt.Errorf("%s out of range: %d", name, v)
		}
	}
	if j.Score < -MaxScore || j.Score > MaxScore {
		return fmt.Errorf("score out of range: %d", j.Score)
	}
	return nil
}

// SpellCheck is an advisory correction of a draft answer
type SpellCheck struct {
	CorrectedText string `json:"correctedText"`
	ErrorsFound   bool   `json:"errorsFound"`
	Explanation   string `json:"explanation"`
}

// Verdict is a judgement tagged with whether it came from the collaborator
// or from a local fallback
type Verdict struct {
	Judgement Judgement `json:"judgement"`
	Degraded  bool      `json:"degraded"`
	Reason    string    `json:"reason,omitempty"`
}

// Ok wraps a judgement returned by the collaborator
func Ok(j Judgement) Verdict {
	return Verdict{Judgement: j}
}

// Degraded builds a fallback verdict
func Degraded(score int, feedback, reason string) Verdict {
	return Verdict{
		Judgement: Judgement{Score: score, Feedback: feedback},
		Degraded:  true,
		Reason:    reason,
	}
}

// Metrics returns the judgement for history records, nil when degraded
func (v Verdict) Metrics() *Judgement {
	if v.Degraded {
		return nil
	}
	j := v.Judgement
	return &j
}
