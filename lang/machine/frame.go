package machine

import "github.com/mna/luma/lang/value"

// frame is one entry of the VM's stack_frames list: the pending callee and
// the stack offset at which its argument region starts. SetTop pushes one;
// the Call that immediately follows consumes it and leaves it in place for
// the duration of the callee's execution, popping it as soon as the callee
// returns; the MovR instructions that follow distribute the returned values
// after the frame is gone.
type frame struct {
	callee value.Value
	top    int
}
