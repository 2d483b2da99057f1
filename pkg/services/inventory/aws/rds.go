package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
)

func (s *source) collectRDS(ctx context.Context) ([]map[string]string, error) {
	var rows []map[string]string
	var marker *string

	for {
		resp, err := s.rds.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe RDS instances: %w", err)
		}

		for _, instance := range resp.DBInstances {
			tags := make(map[string]string, len(instance.TagList))
			for _, tag := range instance.TagList {
				tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}

			hourlyRate := getRDSInstanceTypePrice(aws.ToString(instance.DBInstanceClass))

			rows = append(rows, buildRow(
				aws.ToString(instance.DBInstanceIdentifier),
				"RDS",
				regionFromAZ(aws.ToString(instance.AvailabilityZone)),
				hourlyRate*hoursPerMonth,
				tags,
			))
		}

		if resp.Marker == nil {
			break
		}
		marker = resp.Marker
	}
	return rows, nil
}
