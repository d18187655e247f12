package types

import "time"

// Lifecycle action types as reported by the Cloud Storage API.
const (
	LifecycleActionDelete          = "Delete"
	LifecycleActionSetStorageClass = "SetStorageClass"
)

// Bucket represents a storage bucket snapshot taken once per run
type Bucket struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	ProjectNumber     string            `json:"project_number"`
	Location          string            `json:"location"`
	LocationType      string            `json:"location_type"`
	StorageClass      string            `json:"storage_class"` // Default class for new objects
	Created           time.Time         `json:"created"`
	Updated           time.Time         `json:"updated"`
	VersioningEnabled bool              `json:"versioning_enabled"`
	RetentionPolicy   *RetentionPolicy  `json:"retention_policy,omitempty"`
	SoftDeletePolicy  *SoftDeletePolicy `json:"soft_delete_policy,omitempty"`
	Lifecycle         []LifecycleRule   `json:"lifecycle,omitempty"`
}

// RetentionPolicy is the bucket-level object retention policy
type RetentionPolicy struct {
	Period time.Duration `json:"period"`
}

// SoftDeletePolicy controls how long deleted objects stay recoverable
type SoftDeletePolicy struct {
	RetentionDuration time.Duration `json:"retention_duration"`
}

// LifecycleRule is one lifecycle management rule on a bucket
type LifecycleRule struct {
	Action    LifecycleAction    `json:"action"`
	Condition LifecycleCondition `json:"condition"`
}

// LifecycleAction is what a rule does once its condition matches
type LifecycleAction struct {
	Type         string `json:"type"`                    // Delete, SetStorageClass, AbortIncompleteMultipartUpload
	StorageClass string `json:"storage_class,omitempty"` // Target class for SetStorageClass
}

// LifecycleCondition holds the optional match conditions of a rule.
// A nil field means the condition was not set on the rule.
type LifecycleCondition struct {
	IsLive                  *bool      `json:"is_live,omitempty"`
	DaysSinceNoncurrentTime *int64     `json:"days_since_noncurrent_time,omitempty"`
	NoncurrentTimeBefore    *time.Time `json:"noncurrent_time_before,omitempty"`
	NumNewerVersions        *int64     `json:"num_newer_versions,omitempty"`
}

// TargetsNoncurrent reports whether the condition selects noncurrent
// object versions rather than live ones.
func (c LifecycleCondition) TargetsNoncurrent() bool {
	if c.IsLive != nil && !*c.IsLive {
		return true
	}
	return c.DaysSinceNoncurrentTime != nil ||
		c.NoncurrentTimeBefore != nil ||
		c.NumNewerVersions != nil
}

// Object represents an object in storage
type Object struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	StorageClass string `json:"storage_class"`
}
