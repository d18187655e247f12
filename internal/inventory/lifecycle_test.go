package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vietdv277/bucketscope/pkg/types"
)

func TestSummarizeLifecycle(t *testing.T) {
	deleteAction := types.LifecycleAction{Type: types.LifecycleActionDelete}
	transition := types.LifecycleAction{Type: types.LifecycleActionSetStorageClass, StorageClass: "NEARLINE"}
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		rules []types.LifecycleRule
		want  LifecycleSummary
	}{
		{
			name: "no rules",
			want: LifecycleSummary{},
		},
		{
			name: "delete of noncurrent versions via isLive false",
			rules: []types.LifecycleRule{
				{Action: deleteAction, Condition: types.LifecycleCondition{IsLive: boolPtr(false)}},
			},
			want: LifecycleSummary{RulesCount: 1, NonCurrentVersionDeletionRule: true},
		},
		{
			name: "delete of live objects",
			rules: []types.LifecycleRule{
				{Action: deleteAction, Condition: types.LifecycleCondition{IsLive: boolPtr(true)}},
			},
			want: LifecycleSummary{RulesCount: 1, DeletionRule: true},
		},
		{
			name: "transition without conditions targets live objects",
			rules: []types.LifecycleRule{
				{Action: transition},
			},
			want: LifecycleSummary{RulesCount: 1, TransitionRule: true},
		},
		{
			name: "noncurrent conditions",
			rules: []types.LifecycleRule{
				{Action: transition, Condition: types.LifecycleCondition{DaysSinceNoncurrentTime: int64Ptr(30)}},
				{Action: deleteAction, Condition: types.LifecycleCondition{NoncurrentTimeBefore: &before}},
				{Action: deleteAction, Condition: types.LifecycleCondition{NumNewerVersions: int64Ptr(3)}},
			},
			want: LifecycleSummary{
				RulesCount:                      3,
				NonCurrentVersionTransitionRule: true,
				NonCurrentVersionDeletionRule:   true,
			},
		},
		{
			name: "other actions only count",
			rules: []types.LifecycleRule{
				{Action: types.LifecycleAction{Type: "AbortIncompleteMultipartUpload"}},
			},
			want: LifecycleSummary{RulesCount: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeLifecycle(tt.rules))
		})
	}
}
