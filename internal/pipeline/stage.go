package pipeline

// Stage is one step of the build pipeline, in execution order.
type Stage int

const (
	StageAnalyze Stage = iota
	StageElaborate
	StageExecute
	StageWave
)

func (s Stage) String() string {
	switch s {
	case StageAnalyze:
		return "analyze"
	case StageElaborate:
		return "elaborate"
	case StageExecute:
		return "execute"
	case StageWave:
		return "wave"
	}
	return "unknown"
}

// Command selects how far down the stage sequence a build runs.
type Command int

const (
	// CommandAnalyze only analyzes the target's files.
	CommandAnalyze Command = iota
	// CommandCompile analyzes and elaborates.
	CommandCompile
	// CommandRun analyzes, elaborates and executes.
	CommandRun
	// CommandWave additionally opens the waveform viewer.
	CommandWave
)

var allStages = [...]Stage{StageAnalyze, StageElaborate, StageExecute, StageWave}

// Stages returns the ordered stage prefix the command executes.
func (c Command) Stages() []Stage {
	switch c {
	case CommandAnalyze:
		return allStages[:1]
	case CommandCompile:
		return allStages[:2]
	case CommandRun:
		return allStages[:3]
	}
	return allStages[:]
}
