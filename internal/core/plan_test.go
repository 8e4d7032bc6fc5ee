package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanAccess(t *testing.T) {
	access, ok := PlanFree.Access(FeatureOneToOneInterview)
	assert.True(t, ok)
	assert.NotNil(t, access.Quota)
	assert.Equal(t, 100, *access.Quota)

	// free plans have no recording feature at all
	_, ok = PlanFree.Access(FeatureRecording)
	assert.False(t, ok)

	access, ok = PlanFree.Access(FeatureDiscussionForum)
	assert.True(t, ok)
	assert.Nil(t, access.Quota)

	_, ok = PlanPro.Access(FeatureInterviewScheduling)
	assert.False(t, ok)

	access, ok = PlanEnterprise.Access(FeatureInterviewScheduling)
	assert.True(t, ok)
	assert.Equal(t, "FULL", access.Level)

	access, ok = PlanEnterprise.Access(FeatureAIInterview)
	assert.True(t, ok)
	assert.Nil(t, access.Quota)

	_, ok = PlanType("LEGACY").Access(FeatureAIInterview)
	assert.False(t, ok)
}
