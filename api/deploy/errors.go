package deploy

import (
	"fmt"
	"strings"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

// NodeError records which node and which step of a node task failed.
type NodeError struct {
	Node string
	Step string
	Err  error
}

func NewNodeError(node *types.MiddlewareNode, step string, err error) *NodeError {
	return &NodeError{Node: node.Name, Step: step, Err: err}
}

func (this NodeError) Error() string {
	return fmt.Sprintf("middleware %s failed at %s: %v", this.Node, this.Step, this.Err)
}

func (this NodeError) Unwrap() error {
	return this.Err
}

func (NodeError) Is(target error) bool {
	return target == types.ErrDeployment
}

// NodeErrors collects every node failure of a pass run with OnErrorContinue.
type NodeErrors []*NodeError

func (this NodeErrors) Error() string {
	errs := make([]string, len(this))

	for i, err := range this {
		errs[i] = err.Error()
	}

	return fmt.Sprintf("%d node(s) failed: %s", len(this), strings.Join(errs, "; "))
}

func (NodeErrors) Is(target error) bool {
	return target == types.ErrDeployment
}
