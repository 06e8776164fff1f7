package validation

import (
	"fmt"
	"strings"
)

// Stage orders validators. Lower stages run first and a stage that reports
// anything stops the run.
type Stage int

const (
	StageInitial Stage = iota
	StageUnsupported
	StageInvalid
	StageOther
)

// Stages lists every stage in run order.
var Stages = []Stage{StageInitial, StageUnsupported, StageInvalid, StageOther}

var stageNames = map[Stage]string{
	StageInitial:     "INITIAL",
	StageUnsupported: "UNSUPPORTED",
	StageInvalid:     "INVALID",
	StageOther:       "OTHER",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ParseStage reads a stage name, case-insensitively.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown validation stage %q (expected one of INITIAL, UNSUPPORTED, INVALID, OTHER)", name)
}
