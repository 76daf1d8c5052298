package assets

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/ogppu/binding"
	ogerr "github.com/ByLCY/ogppu/errors"
	"github.com/ByLCY/ogppu/fonts"
)

// waitDelay bounds how long output is drained after the process is killed.
const waitDelay = 2 * time.Second

// Script runs an external program per title and reads the generated
// background from its stdout. Args may reference ${title}.
//
//	Script{Command: "python3", Args: []string{"bg.py", "--title", "${title}"}}
type Script struct {
	Command string
	Args    []string
	Dir     string
	Env     []string // appended to the current environment when set
	Font    []byte
	Logger  *log.Logger
}

var _ Provider = (*Script)(nil)

// Assets runs the program. The context bounds the process lifetime.
func (s *Script) Assets(ctx context.Context, title string) (Assets, error) {
	if s.Command == "" {
		return Assets{}, ogerr.New(ogerr.ErrCodeAssetLoad, "未配置背景生成脚本")
	}
	font := s.Font
	if len(font) == 0 {
		font = fonts.Default()
	}

	vars := binding.Vars{"title": title}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = binding.Interpolate(a, vars)
	}

	cmd := exec.CommandContext(ctx, s.Command, args...)
	cmd.Dir = s.Dir
	if len(s.Env) > 0 {
		cmd.Env = append(cmd.Environ(), s.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	s.logger().Debug("background script finished", "command", s.Command, "elapsed", time.Since(start).Round(time.Millisecond), "bytes", stdout.Len())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Assets{}, ogerr.AssetLoad(ctxErr, "背景生成脚本 %s 被中止", s.Command)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			procErr := &ogerr.ExternalProcessError{
				Command:  s.Command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
			return Assets{}, ogerr.AssetLoad(procErr, "背景生成脚本执行失败")
		}
		return Assets{}, ogerr.AssetLoad(err, "无法启动背景生成脚本 %s", s.Command)
	}
	if stdout.Len() == 0 {
		return Assets{}, ogerr.New(ogerr.ErrCodeAssetLoad, "背景生成脚本 %s 没有输出 (no output)", s.Command)
	}
	return Assets{Background: stdout.Bytes(), Font: font}, nil
}

func (s *Script) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}
