package inventory

import "github.com/vietdv277/bucketscope/pkg/types"

// LifecycleSummary classifies a bucket's lifecycle rules by action
// (delete or storage class transition) and by the object versions they target.
type LifecycleSummary struct {
	RulesCount                      int
	DeletionRule                    bool
	TransitionRule                  bool
	NonCurrentVersionTransitionRule bool
	NonCurrentVersionDeletionRule   bool
}

// SummarizeLifecycle scans the rules of a bucket. Rules with other action
// types count towards RulesCount only.
func SummarizeLifecycle(rules []types.LifecycleRule) LifecycleSummary {
	sum := LifecycleSummary{RulesCount: len(rules)}
	for _, rule := range rules {
		noncurrent := rule.Condition.TargetsNoncurrent()

		switch rule.Action.Type {
		case types.LifecycleActionDelete:
			if noncurrent {
				sum.NonCurrentVersionDeletionRule = true
			} else {
				sum.DeletionRule = true
			}
		case types.LifecycleActionSetStorageClass:
			if noncurrent {
				sum.NonCurrentVersionTransitionRule = true
			} else {
				sum.TransitionRule = true
			}
		}
	}
	return sum
}
