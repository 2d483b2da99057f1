package aws

// On-demand us-east-1 hourly rates; unknown types fall back to a small
// general-purpose estimate. Good enough for allocation metrics, not
// billing.
var ec2HourlyRates = map[string]float64{
	"t2.micro":   0.0116,
	"t2.small":   0.023,
	"t2.medium":  0.0464,
	"t3.micro":   0.0104,
	"t3.small":   0.0208,
	"t3.medium":  0.0416,
	"t3.large":   0.0832,
	"t4g.nano":   0.0042,
	"t4g.micro":  0.0084,
	"t4g.small":  0.0168,
	"m5.large":   0.096,
	"m5.xlarge":  0.192,
	"m5.2xlarge": 0.384,
	"c5.large":   0.085,
	"c5.xlarge":  0.17,
	"r5.large":   0.126,
	"r5.xlarge":  0.252,
}

func getInstanceTypePrice(instanceType string) float64 {
	if rate, ok := ec2HourlyRates[instanceType]; ok {
		return rate
	}
	return 0.05
}

var rdsHourlyRates = map[string]float64{
	"db.t3.micro":  0.017,
	"db.t3.small":  0.034,
	"db.t3.medium": 0.068,
	"db.m5.large":  0.171,
	"db.m5.xlarge": 0.342,
	"db.r5.large":  0.24,
}

func getRDSInstanceTypePrice(instanceClass string) float64 {
	if rate, ok := rdsHourlyRates[instanceClass]; ok {
		return rate
	}
	return 0.1
}

// getS3StorageRate returns the standard-storage GB-month rate.
func getS3StorageRate() float64 {
	return 0.023
}
