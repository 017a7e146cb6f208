package images

const (
	// DefaultTag is used for selected entries that do not name a tag.
	DefaultTag = "latest"

	// AllTags in place of a tag selects every tag of the repository.
	AllTags = "ALL_TAGS"
)

// Image maps a container repository to one of its tags.
// The JSON form is what the replication state machine consumes, one task per entry.
type Image struct {
	RepositoryName string `json:"repositoryName" dynamodbav:"repositoryName"` // The repository, without registry host for ECR sources.
	ImageTag       string `json:"imageTag" dynamodbav:"imageTag"`             // The tag to replicate.
}

func (i Image) String() string {
	return i.RepositoryName + ":" + i.ImageTag
}

func (i Image) IsAllTags() bool {
	return i.ImageTag == AllTags
}
