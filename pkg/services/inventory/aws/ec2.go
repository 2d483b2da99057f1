package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

func (s *source) collectEC2(ctx context.Context) ([]map[string]string, error) {
	var rows []map[string]string
	var nextToken *string

	for {
		resp, err := s.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			Filters: []types.Filter{
				{
					Name:   aws.String("instance-state-name"),
					Values: []string{"running"},
				},
			},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe EC2 instances: %w", err)
		}

		for _, reservation := range resp.Reservations {
			for _, instance := range reservation.Instances {
				tags := make(map[string]string, len(instance.Tags))
				for _, tag := range instance.Tags {
					tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
				}

				hourlyRate := getInstanceTypePrice(string(instance.InstanceType))
				region := ""
				if instance.Placement != nil {
					region = regionFromAZ(aws.ToString(instance.Placement.AvailabilityZone))
				}

				rows = append(rows, buildRow(
					aws.ToString(instance.InstanceId),
					"EC2",
					region,
					hourlyRate*hoursPerMonth,
					tags,
				))
			}
		}

		if resp.NextToken == nil {
			break
		}
		nextToken = resp.NextToken
	}
	return rows, nil
}
