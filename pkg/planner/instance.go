package planner

import (
	"fmt"

	"github.com/specvital/testplan/pkg/domain"
)

// SourceInstance stands for one instance of a class known only from source.
type SourceInstance struct {
	Class domain.ClassName
	// Name is the name the instance reports for itself, empty for none.
	Name    string
	Ordinal int
}

func (i *SourceInstance) TestName() string { return i.Name }

func (i *SourceInstance) String() string {
	return fmt.Sprintf("%s@%d", i.Class.SimpleName(), i.Ordinal)
}
