package imagelist

import "github.com/awslabs/ecr-replication/internal/config"

// Strategy names the lister an invocation dispatches to.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyECR
	StrategySelected
)

func (s Strategy) String() string {
	switch s {
	case StrategyECR:
		return "ecr"
	case StrategySelected:
		return "selected"
	default:
		return "none"
	}
}

// SelectStrategy picks the ECR lister for Amazon ECR sources whatever the list
// selector, the selected-list lister for any other source with a SELECTED list,
// and nothing otherwise.
func SelectStrategy(params config.SourceParams) Strategy {
	switch {
	case params.IsECR():
		return StrategyECR
	case params.IsSelected():
		return StrategySelected
	default:
		return StrategyNone
	}
}
