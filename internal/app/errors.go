package app

import "fmt"

// StorageError reports that the report document could not be stored.
// The alert is still sent and says no report was saved.
type StorageError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotificationError reports that the alert could not be published.
// It is logged and never fails the invocation.
type NotificationError struct {
	TopicARN string
	Err      error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("publishing to %s: %v", e.TopicARN, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
