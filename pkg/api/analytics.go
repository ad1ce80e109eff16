package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CourseAnalytics returns the aggregated activity summary for a course.
// Requires an instructor, TA or admin session on the backend side.
func (c *Client) CourseAnalytics(ctx context.Context, courseID string) (*CourseAnalytics, error) {
	if courseID == "" {
		return nil, fmt.Errorf("course id must not be empty")
	}

	var analytics CourseAnalytics

	path := fmt.Sprintf(pathCourseFmt, url.PathEscape(courseID))
	if err := c.do(ctx, http.MethodGet, path, nil, &analytics); err != nil {
		return nil, fmt.Errorf("fetching course analytics: %w", err)
	}

	return &analytics, nil
}
