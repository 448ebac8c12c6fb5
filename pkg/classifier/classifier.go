// Package classifier holds the per-kind policies that decide whether a
// resource descriptor counts as unused.
package classifier

import (
	"strconv"
	"time"

	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/utils"
)

// Func decides whether a descriptor is unused. It is pure: the same inputs
// always give the same answer, and now is passed in rather than read.
type Func func(d models.ResourceDescriptor, t models.Thresholds, now time.Time) (models.Finding, bool)

// lifecycle states compared by state-based policies
const (
	stateActive  = "active"
	stateStopped = "stopped"
)

// For returns the policy registered for kind
func For(kind models.ResourceKind) (Func, bool) {
	fn, ok := policies[kind]
	return fn, ok
}

var policies = map[models.ResourceKind]Func{
	models.KindComputeInstance:     ComputeInstance,
	models.KindBlockVolume:         BlockVolume,
	models.KindFloatingIP:          FloatingIP,
	models.KindLoadBalancer:        LoadBalancer,
	models.KindManagedDatabase:     ManagedDatabase,
	models.KindObjectStoreBucket:   ObjectStoreBucket,
	models.KindKeyValueTable:       Inventory(models.KindKeyValueTable),
	models.KindDistribution:        Distribution,
	models.KindFunction:            Inventory(models.KindFunction),
	models.KindLogGroup:            LogGroup,
	models.KindContainerRepository: ContainerRepository,
}

// ComputeInstance accepts a stopped instance idle for at least EC2UnusedDays.
// The metric is the idle day count.
func ComputeInstance(d models.ResourceDescriptor, t models.Thresholds, now time.Time) (models.Finding, bool) {
	if d.Attributes.ReferenceTime == nil {
		return models.Finding{}, false
	}

	days := utils.CalculateElapsedDays(*d.Attributes.ReferenceTime, now)
	if days < t.EC2UnusedDays {
		return models.Finding{}, false
	}

	return finding(models.KindComputeInstance, d, strconv.Itoa(days)), true
}

// BlockVolume accepts an unattached volume created at least EBSUnusedDays ago.
// The day count decides acceptance but is not reported.
func BlockVolume(d models.ResourceDescriptor, t models.Thresholds, now time.Time) (models.Finding, bool) {
	if d.Attributes.CreationTime == nil {
		return models.Finding{}, false
	}

	if utils.CalculateElapsedDays(*d.Attributes.CreationTime, now) < t.EBSUnusedDays {
		return models.Finding{}, false
	}

	return finding(models.KindBlockVolume, d, models.NoValue), true
}

// FloatingIP accepts an address with no association
func FloatingIP(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.Attached {
		return models.Finding{}, false
	}
	return finding(models.KindFloatingIP, d, models.NoValue), true
}

// LoadBalancer accepts a balancer in the active state. Active balancers are
// listed for manual review of their traffic, so this is not an idle signal.
func LoadBalancer(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.State != stateActive {
		return models.Finding{}, false
	}
	return finding(models.KindLoadBalancer, d, models.NoValue), true
}

// ManagedDatabase accepts a stopped database instance
func ManagedDatabase(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.State != stateStopped {
		return models.Finding{}, false
	}
	return finding(models.KindManagedDatabase, d, models.NoValue), true
}

// ObjectStoreBucket accepts a bucket holding no objects
func ObjectStoreBucket(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.HasObjects {
		return models.Finding{}, false
	}
	return finding(models.KindObjectStoreBucket, d, models.NoValue), true
}

// Distribution accepts a disabled distribution
func Distribution(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.Enabled {
		return models.Finding{}, false
	}
	return finding(models.KindDistribution, d, models.NoValue), true
}

// LogGroup accepts a log group that has never stored any bytes
func LogGroup(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.StoredBytes > 0 {
		return models.Finding{}, false
	}
	return finding(models.KindLogGroup, d, models.NoValue), true
}

// ContainerRepository accepts a repository without images
func ContainerRepository(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
	if d.Attributes.HasObjects {
		return models.Finding{}, false
	}
	return finding(models.KindContainerRepository, d, models.NoValue), true
}

// Inventory accepts every descriptor of kind. Used for kinds that have no
// usage signal, so the report lists the full inventory for review.
func Inventory(kind models.ResourceKind) Func {
	return func(d models.ResourceDescriptor, _ models.Thresholds, _ time.Time) (models.Finding, bool) {
		return finding(kind, d, models.NoValue), true
	}
}

func finding(kind models.ResourceKind, d models.ResourceDescriptor, metric string) models.Finding {
	return models.Finding{
		Kind:     kind,
		ID:       d.ID,
		Location: utils.OrNoValue(d.Location),
		Metric:   metric,
	}
}
