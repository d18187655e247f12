package types

// TimestampLayout is the UTC format used for every timestamp in a record
const TimestampLayout = "2006-01-02 15:04:05"

// OutputRecord is one inventory row: a bucket joined with one storage class
// sample and its project context. Field order is the report column order.
type OutputRecord struct {
	Timestamp                       string `json:"Timestamp"`
	ParentFolder                    string `json:"ParentFolder"`
	SubFolder                       string `json:"SubFolder"`
	ProjectID                       string `json:"ProjectId"`
	BucketID                        string `json:"BucketId"`
	BucketName                      string `json:"BucketName"`
	Location                        string `json:"Location"`
	LocationType                    string `json:"LocationType"`
	StorageClass                    string `json:"StorageClass"`
	ObjectCount                     int64  `json:"ObjectCount"`
	BucketSizeBytes                 int64  `json:"BucketSizeBytes"`
	BucketSizeFormatted             string `json:"BucketSizeFormatted"`
	Versioning                      bool   `json:"Versioning"`
	RetentionPolicy                 bool   `json:"RetentionPolicy"`
	RetentionPolicyPeriodDays       *int64 `json:"RetentionPolicyPeriodDays"`
	TimeCreated                     string `json:"TimeCreated"`
	Updated                         string `json:"Updated"`
	SoftDeleteEnabled               bool   `json:"SoftDeleteEnabled"`
	ProjectNumber                   string `json:"ProjectNumber"`
	LifecycleRulesCount             int    `json:"LifecycleRulesCount"`
	DeletionRule                    bool   `json:"DeletionRule"`
	TransitionRule                  bool   `json:"TransitionRule"`
	NonCurrentVersionTransitionRule bool   `json:"NonCurrentVersionTransitionRule"`
	NonCurrentVersionDeletionRule   bool   `json:"NonCurrentVersionDeletionRule"`
}
