package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRow_DerivesTaggedFromCoreCompleteness(t *testing.T) {
	row := buildRow("i-123", "EC2", "us-east-1", 8.47, map[string]string{
		"Department":  "Eng",
		"Project":     "Atlas",
		"Environment": "Prod",
		"Owner":       "alice",
		"Name":        "web-1", // unrecognized keys are dropped
	})

	assert.Equal(t, "i-123", row["ResourceID"])
	assert.Equal(t, "EC2", row["Service"])
	assert.Equal(t, "8.47", row["MonthlyCostUSD"])
	assert.Equal(t, "Yes", row["Tagged"])
	assert.NotContains(t, row, "Name")
	assert.NotContains(t, row, "CostCenter")
}

func TestBuildRow_IncompleteCoreFieldsMeanUntagged(t *testing.T) {
	row := buildRow("i-456", "EC2", "us-east-1", 1, map[string]string{
		"Department": "Eng",
		"CostCenter": "CC-7",
	})

	assert.Equal(t, "No", row["Tagged"])
	assert.Equal(t, "CC-7", row["CostCenter"])
}

func TestRegionFromAZ(t *testing.T) {
	assert.Equal(t, "us-east-1", regionFromAZ("us-east-1a"))
	assert.Equal(t, "eu-west-2", regionFromAZ("eu-west-2c"))
	assert.Equal(t, "", regionFromAZ(""))
	assert.Equal(t, "us-east-1", regionFromAZ("us-east-1"))
}
