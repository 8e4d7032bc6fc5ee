package core

// PlanType is a subscription tier.
type PlanType string

const (
	PlanFree       PlanType = "FREE"
	PlanPro        PlanType = "PRO"
	PlanEnterprise PlanType = "ENTERPRISE"
)

// Feature names a subscription-gated capability.
type Feature string

const (
	FeatureAIInterview         Feature = "AI_INTERVIEW"
	FeatureOneToOneInterview   Feature = "ONE_TO_ONE_INTERVIEW"
	FeatureResumeAnalyzer      Feature = "RESUME_ANALYZER"
	FeatureRecording           Feature = "INTERVIEW_RECORDING"
	FeatureDiscussionForum     Feature = "DISCUSSION_FORUM"
	FeatureResumeIntegration   Feature = "RESUME_INTEGRATION"
	FeatureAIAnalysis          Feature = "AI_INTERVIEW_ANALYSIS"
	FeatureInterviewScheduling Feature = "INTERVIEW_SCHEDULING"
)

// FeatureAccess describes what a plan grants for one feature. A nil Quota
// means unlimited use.
type FeatureAccess struct {
	Level string
	Quota *int
}

func quota(n int) *int { return &n }

// PlanFeatures is the static quota table per subscription tier.
var PlanFeatures = map[PlanType]map[Feature]FeatureAccess{
	PlanFree: {
		FeatureAIInterview:       {Level: "BASIC", Quota: quota(1)},
		FeatureOneToOneInterview: {Level: "BASIC", Quota: quota(100)},
		FeatureResumeAnalyzer:    {Level: "BASIC", Quota: quota(1)},
		FeatureDiscussionForum:   {Level: "FULL"},
	},
	PlanPro: {
		FeatureAIInterview:       {Level: "ADVANCED", Quota: quota(10)},
		FeatureOneToOneInterview: {Level: "ADVANCED", Quota: quota(10)},
		FeatureResumeAnalyzer:    {Level: "ADVANCED", Quota: quota(5)},
		FeatureRecording:         {Level: "BASIC"},
		FeatureResumeIntegration: {Level: "FULL"},
	},
	PlanEnterprise: {
		FeatureAIInterview:         {Level: "UNLIMITED"},
		FeatureOneToOneInterview:   {Level: "ADVANCED", Quota: quota(10)},
		FeatureAIAnalysis:          {Level: "FULL"},
		FeatureRecording:           {Level: "FULL"},
		FeatureResumeAnalyzer:      {Level: "FULL"},
		FeatureInterviewScheduling: {Level: "FULL"},
		FeatureResumeIntegration:   {Level: "FULL"},
	},
}

// Access returns plan's grant for feature, if any.
func (p PlanType) Access(feature Feature) (FeatureAccess, bool) {
	features, ok := PlanFeatures[p]
	if !ok {
		return FeatureAccess{}, false
	}

	access, ok := features[feature]

	return access, ok
}
