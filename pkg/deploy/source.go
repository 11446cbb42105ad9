package deploy

import (
	"github.com/kuberlab/mldeploy/pkg/artifact"
)

type SourceKind int

const (
	// SourceExisting reuses the reference already in the working copy.
	SourceExisting SourceKind = iota
	// SourceInline saves an in-memory object and uploads it.
	SourceInline
	// SourceDocker points at an externally hosted image.
	SourceDocker
	// SourceBlob points at an externally hosted blob.
	SourceBlob
)

var sourceKindNames = map[SourceKind]string{
	SourceExisting: "existing",
	SourceInline:   "inline",
	SourceDocker:   "docker",
	SourceBlob:     "blob",
}

func (k SourceKind) String() string {
	return sourceKindNames[k]
}

// Source is where the artifact of one role comes from. The zero value
// reuses the existing reference.
type Source struct {
	kind   SourceKind
	object interface{}
	docker artifact.DockerReference
	blob   artifact.BlobReference
}

func InlineSource(obj interface{}) Source {
	return Source{kind: SourceInline, object: obj}
}

func DockerSource(ref artifact.DockerReference) Source {
	return Source{kind: SourceDocker, docker: ref}
}

func BlobSource(ref artifact.BlobReference) Source {
	return Source{kind: SourceBlob, blob: ref}
}

func ExistingSource() Source {
	return Source{}
}

// SourceOf picks one source out of loosely populated inputs: an object wins
// over a docker reference, which wins over a blob reference.
func SourceOf(obj interface{}, docker *artifact.DockerReference, blob *artifact.BlobReference) Source {
	switch {
	case obj != nil:
		return InlineSource(obj)
	case !docker.IsEmpty():
		return DockerSource(*docker)
	case !blob.IsEmpty():
		return BlobSource(*blob)
	}
	return ExistingSource()
}

func (s Source) Kind() SourceKind {
	return s.kind
}

func (s Source) Object() interface{} {
	return s.object
}

func (s Source) Reference() artifact.Reference {
	switch s.kind {
	case SourceDocker:
		ref := s.docker
		return artifact.BuildReference(&ref, nil)
	case SourceBlob:
		ref := s.blob
		return artifact.BuildReference(nil, &ref)
	}
	return artifact.Reference{}
}
