package aws

import (
	"context"

	"code.justin.tv/safety/ec2-restart/cloud"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const nameTag = "Name"

// Clients implements cloud.Gateway on top of the EC2 API
type Clients struct {
	ec2 ec2iface.EC2API
	log logrus.FieldLogger
}

var _ cloud.Gateway = (*Clients)(nil)

// New builds the EC2 backed gateway for the account and region of the config provider
func New(configProvider client.ConfigProvider, log logrus.FieldLogger) *Clients {
	return NewWithAPI(ec2.New(configProvider), log)
}

// NewWithAPI wraps an existing EC2 client
func NewWithAPI(api ec2iface.EC2API, log logrus.FieldLogger) *Clients {
	return &Clients{ec2: api, log: log}
}

// instanceName returns the value of the first Name tag, or the unnamed sentinel
func instanceName(tags []*ec2.Tag) string {
	for _, tag := range tags {
		if aws.StringValue(tag.Key) == nameTag {
			return aws.StringValue(tag.Value)
		}
	}
	return cloud.UnnamedInstance
}

func summarize(instance *ec2.Instance) cloud.InstanceSummary {
	var state string
	if instance.State != nil {
		state = aws.StringValue(instance.State.Name)
	}
	return cloud.InstanceSummary{
		ID:    aws.StringValue(instance.InstanceId),
		Name:  instanceName(instance.Tags),
		State: state,
	}
}

// ListInstances flattens every reservation in the region into a single list, in the order returned
func (c *Clients) ListInstances(ctx context.Context) ([]cloud.InstanceSummary, error) {
	var instances []cloud.InstanceSummary
	err := c.ec2.DescribeInstancesPagesWithContext(ctx, &ec2.DescribeInstancesInput{},
		func(output *ec2.DescribeInstancesOutput, lastPage bool) bool {
			for _, reservation := range output.Reservations {
				for _, instance := range reservation.Instances {
					instances = append(instances, summarize(instance))
				}
			}
			return true
		})
	if err != nil {
		return nil, errors.Wrap(err, "aws: failed to describe ec2 instances")
	}

	c.log.WithField("count", len(instances)).Debug("described instances")
	return instances, nil
}

func instanceIDs(instanceID string) []*string {
	return []*string{aws.String(instanceID)}
}

// Stop requests a stop and returns once the request has been accepted
func (c *Clients) Stop(ctx context.Context, instanceID string) error {
	output, err := c.ec2.StopInstancesWithContext(ctx, &ec2.StopInstancesInput{
		InstanceIds: instanceIDs(instanceID),
	})
	if err != nil {
		return errors.Wrapf(err, "instance:%s failed to stop instance", instanceID)
	}
	if output != nil {
		for _, change := range output.StoppingInstances {
			c.logTransition(instanceID, change)
		}
	}
	return nil
}

// Start requests a start and returns once the request has been accepted
func (c *Clients) Start(ctx context.Context, instanceID string) error {
	output, err := c.ec2.StartInstancesWithContext(ctx, &ec2.StartInstancesInput{
		InstanceIds: instanceIDs(instanceID),
	})
	if err != nil {
		return errors.Wrapf(err, "instance:%s failed to start instance", instanceID)
	}
	if output != nil {
		for _, change := range output.StartingInstances {
			c.logTransition(instanceID, change)
		}
	}
	return nil
}

// WaitUntilStopped blocks on the SDK waiter until the instance reports stopped
func (c *Clients) WaitUntilStopped(ctx context.Context, instanceID string) error {
	err := c.ec2.WaitUntilInstanceStoppedWithContext(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: instanceIDs(instanceID),
	})
	return errors.Wrapf(err, "instance:%s failed waiting for stopped state", instanceID)
}

// WaitUntilRunning blocks on the SDK waiter until the instance reports running
func (c *Clients) WaitUntilRunning(ctx context.Context, instanceID string) error {
	err := c.ec2.WaitUntilInstanceRunningWithContext(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: instanceIDs(instanceID),
	})
	return errors.Wrapf(err, "instance:%s failed waiting for running state", instanceID)
}

func (c *Clients) logTransition(instanceID string, change *ec2.InstanceStateChange) {
	entry := c.log.WithField("instance", instanceID)
	if change.PreviousState != nil {
		entry = entry.WithField("previous", aws.StringValue(change.PreviousState.Name))
	}
	if change.CurrentState != nil {
		entry = entry.WithField("current", aws.StringValue(change.CurrentState.Name))
	}
	entry.Debug("state change accepted")
}
