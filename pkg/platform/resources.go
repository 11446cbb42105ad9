package platform

import (
	"fmt"
	"net/http"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Resources sizes a model or explainer pod. Quantities use the kubernetes
// notation, e.g. "500m" CPU or "2Gi" memory.
type Resources struct {
	InstanceType string             `json:"instanceType,omitempty"`
	CPULimit     *resource.Quantity `json:"cpuLimit,omitempty"`
	CPURequest   *resource.Quantity `json:"cpuRequest,omitempty"`
	MemLimit     *resource.Quantity `json:"memLimit,omitempty"`
	MemRequest   *resource.Quantity `json:"memRequest,omitempty"`
}

func (r *Resources) IsEmpty() bool {
	return r == nil || (r.InstanceType == "" && r.CPULimit == nil && r.CPURequest == nil &&
		r.MemLimit == nil && r.MemRequest == nil)
}

func (r *Resources) Validate() error {
	if r == nil {
		return nil
	}
	for name, q := range map[string]*resource.Quantity{
		"cpu limit":      r.CPULimit,
		"cpu request":    r.CPURequest,
		"memory limit":   r.MemLimit,
		"memory request": r.MemRequest,
	} {
		if q != nil && q.Sign() <= 0 {
			return invalidResources(fmt.Sprintf("%v must be positive, got %v", name, q.String()))
		}
	}
	if exceeds(r.CPURequest, r.CPULimit) {
		return invalidResources(fmt.Sprintf("cpu request %v exceeds limit %v", r.CPURequest.String(), r.CPULimit.String()))
	}
	if exceeds(r.MemRequest, r.MemLimit) {
		return invalidResources(fmt.Sprintf("memory request %v exceeds limit %v", r.MemRequest.String(), r.MemLimit.String()))
	}
	return nil
}

// Sizing converts quantities to CPUs and megabytes.
func (r *Resources) Sizing() Sizing {
	if r == nil {
		return Sizing{}
	}
	return Sizing{
		InstanceType: r.InstanceType,
		CPULimit:     cpus(r.CPULimit),
		CPURequest:   cpus(r.CPURequest),
		MemLimit:     megabytes(r.MemLimit),
		MemRequest:   megabytes(r.MemRequest),
	}
}

func invalidResources(message string) error {
	return errors.Smart(http.StatusBadRequest, errors.InvalidOptions, message)
}

func exceeds(request, limit *resource.Quantity) bool {
	if request == nil || limit == nil {
		return false
	}
	return request.Cmp(*limit) > 0
}

func cpus(q *resource.Quantity) *float64 {
	if q == nil {
		return nil
	}
	v := float64(q.MilliValue()) / 1000
	return &v
}

func megabytes(q *resource.Quantity) *int64 {
	if q == nil {
		return nil
	}
	v := q.ScaledValue(resource.Mega)
	return &v
}
