package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// callRelationKey carries MsgFormatSingle/MsgFormatMulti from output to the
// hooker; it is removed before the entry is written.
const callRelationKey = "_calls"

const maxCallFrames = 3

type functionHooker struct{}

// callers returns the frames above the logging and logrus packages.
func callers() []runtime.Frame {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []runtime.Frame
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "sirupsen/logrus") &&
			!strings.Contains(frame.Function, "sha2/logging.") {
			out = append(out, frame)
		}
		if !more || len(out) == maxCallFrames {
			return out
		}
	}
}

func shortFunc(name string) string {
	if index := strings.LastIndex(name, "/"); index >= 0 {
		return name[index+1:]
	}
	return name
}

func (h *functionHooker) Fire(entry *logrus.Entry) error {
	relation, _ := entry.Data[callRelationKey].(uint32)
	delete(entry.Data, callRelationKey)

	frames := callers()
	if len(frames) == 0 {
		return nil
	}
	if relation == MsgFormatMulti {
		for i, f := range frames {
			entry.Data[fmt.Sprintf("f%d", i)] = fmt.Sprintf("{%s,%s,%d}", filepath.Base(f.File), shortFunc(f.Function), f.Line)
		}
		return nil
	}
	entry.Data["func"] = shortFunc(frames[0].Function)
	entry.Data["line"] = frames[0].Line
	entry.Data["file"] = filepath.Base(frames[0].File)
	return nil
}

func (h *functionHooker) Levels() []logrus.Level {
	return logrus.AllLevels
}

// LoadFunctionHooker loads a function hooker to the logger
func LoadFunctionHooker(logger *Logger) {
	logger.Hooks.Add(&functionHooker{})
}
