package main

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The served API contract must stay loadable and internally consistent.
func TestOpenAPIDocumentIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("public/docs/v1/openapi.yml")
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	assert.Equal(t, "CourseBay API", doc.Info.Title)

	for _, path := range []string{
		"/api/course/all",
		"/api/course/{id}",
		"/api/user/data",
		"/api/user/purchase",
		"/api/user/verify-purchase",
		"/api/user/enrolled-courses",
		"/api/user/update-course-progress",
		"/api/user/get-course-progress",
		"/api/user/add-rating",
		"/webhooks/payments",
		"/webhooks/identity",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "missing documented path %s", path)
	}
}
