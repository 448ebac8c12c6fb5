package models

import "time"

// NoValue is written wherever a finding has no location or metric
const NoValue = "-"

// ResourceDescriptor is one candidate resource returned by a probe.
// Descriptors live for a single scan and are never persisted.
type ResourceDescriptor struct {
	ID         string
	Location   string // region, zone or network border group; may be empty
	Attributes Attributes
}

// Attributes holds the kind-specific signals a classifier needs.
// Each probe fills only the fields its kind uses.
type Attributes struct {
	ReferenceTime *time.Time // compute-instance: stop time, or launch time when unknown
	CreationTime  *time.Time // block-volume
	Attached      bool       // floating-ip
	State         string     // load-balancer, managed-database
	Enabled       bool       // content-distribution-endpoint
	HasObjects    bool       // object-store-bucket, container-repository
	StoredBytes   int64      // log-group
}
