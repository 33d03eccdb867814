package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type GetSubscriptionAttributesAPI interface {
	GetSubscriptionAttributes(ctx context.Context, params *sns.GetSubscriptionAttributesInput, optFns ...func(*sns.Options)) (*sns.GetSubscriptionAttributesOutput, error)
}

// GetSubscriptionAttributes fetches the attributes of an existing SNS
// subscription and prints every name and value pair, or the service
// error when the call fails.
func GetSubscriptionAttributes(ctx context.Context, client GetSubscriptionAttributesAPI, stdout io.Writer, stderr io.Writer, subscriptionArn string) bool {
	output, err := client.GetSubscriptionAttributes(ctx, &sns.GetSubscriptionAttributesInput{
		SubscriptionArn: aws.String(subscriptionArn),
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error while getting subscription attributes: %s\n", err)
		return false
	}
	fmt.Fprintln(stdout, "Subscription Attributes:")
	names := maps.Keys(output.Attributes)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(stdout, "  * %s : %s\n", name, output.Attributes[name])
	}
	return true
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: attributes <subscription-arn>")
		os.Exit(1)
	}
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic("Failed to load AWS config.")
	}
	GetSubscriptionAttributes(context.TODO(), sns.NewFromConfig(cfg), os.Stdout, os.Stderr, os.Args[1])
}
