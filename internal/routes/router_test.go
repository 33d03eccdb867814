package routes_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"philcali.me/notifications/internal/data"
	auditData "philcali.me/notifications/internal/dynamodb/audits"
	subscriberData "philcali.me/notifications/internal/dynamodb/subscriptions"
	"philcali.me/notifications/internal/dynamodb/token"
	"philcali.me/notifications/internal/notifications"
	"philcali.me/notifications/internal/routes"
	"philcali.me/notifications/internal/routes/audits"
	"philcali.me/notifications/internal/routes/notices"
	"philcali.me/notifications/internal/routes/subscriptions"
	"philcali.me/notifications/internal/test"
)

type LocalNotifications struct {
	Cache      map[string]notifications.SubscribeInput
	Attributes map[string]map[string]string
}

func (ln *LocalNotifications) Subscribe(input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}
	ln.Cache[id.String()] = input
	ln.Attributes[id.String()] = map[string]string{
		"Endpoint":            *input.Endpoint,
		"Protocol":            *input.Protocol,
		"PendingConfirmation": "false",
	}
	return &notifications.SubscribeOutput{
		SubscriberId: id.String(),
	}, nil
}

func (ln *LocalNotifications) Unsubscribe(subscriberId string) error {
	delete(ln.Cache, subscriberId)
	delete(ln.Attributes, subscriberId)
	return nil
}

func (ln *LocalNotifications) GetAttributes(subscriberId string) (map[string]string, error) {
	attributes, ok := ln.Attributes[subscriberId]
	if !ok {
		return nil, fmt.Errorf("no subscription found for %s", subscriberId)
	}
	return attributes, nil
}

func (ln *LocalNotifications) SetAttribute(subscriberId string, name string, value string) error {
	ln.Attributes[subscriberId][name] = value
	return nil
}

func (ln *LocalNotifications) Publish(input notifications.PublishInput) (*notifications.PublishOutput, error) {
	return &notifications.PublishOutput{MessageId: "message-1"}, nil
}

type LocalVerification struct {
	Verified []string
}

func (lv *LocalVerification) Verify(endpoint string) error {
	lv.Verified = append(lv.Verified, endpoint)
	return nil
}

type LocalServer struct {
	Router        *routes.Router
	DynamoDB      *dynamodb.Client
	Notifications *LocalNotifications
	Subscriptions data.SubscriptionDataService
	TableName     string
	Username      string
	Email         string
}

func NewLocalServer(t *testing.T) *LocalServer {
	localServer := test.StartLocalServer(test.LOCAL_DDB_PORT+1, t)
	client, err := localServer.CreateLocalClient()
	if err != nil {
		t.Fatalf("Failed to create DDB client: %s", err)
	}
	tableName, err := test.CreateTable(client)
	if err != nil {
		t.Fatalf("Failed to create DDB table: %s", err)
	}
	t.Logf("Successfully created local resources running on %d", test.LOCAL_DDB_PORT+1)
	marshaler := token.NewGCM()
	localNotifications := &LocalNotifications{
		Cache:      make(map[string]notifications.SubscribeInput),
		Attributes: make(map[string]map[string]string),
	}
	subscriptionData := subscriberData.NewSubscriptionService(tableName, *client, marshaler)
	router := routes.NewRouter(
		subscriptions.NewRoute(
			subscriptionData,
			localNotifications,
			&LocalVerification{},
		),
		audits.NewRouteWithIndex(auditData.NewAuditService(tableName, *client, marshaler), "GS1"),
		notices.NewRoute(localNotifications),
	)
	return &LocalServer{
		Router:        router,
		TableName:     tableName,
		DynamoDB:      client,
		Notifications: localNotifications,
		Subscriptions: subscriptionData,
		Username:      "nobody",
		Email:         "nobody@email.com",
	}
}

func (ls *LocalServer) Request(t *testing.T, method string, path string, body []byte, out any, params map[string]string) events.APIGatewayV2HTTPResponse {
	request := events.APIGatewayV2HTTPRequest{}
	fd, err := os.ReadFile(filepath.Join("router_test", "template.json"))
	if err != nil {
		t.Fatalf("Failed to load request template: %s", err)
	}
	if err := json.Unmarshal(fd, &request); err != nil {
		t.Fatalf("Failed to deserialize request template: %s", err)
	}
	request.RawPath = path
	request.QueryStringParameters = params
	request.RequestContext.HTTP.Method = method
	request.RequestContext.HTTP.Path = path
	request.RequestContext.Authorizer.Lambda["jwt"] = map[string]interface{}{
		"username": ls.Username,
		"email":    ls.Email,
	}
	request.Body = string(body)
	response := ls.Router.Invoke(request, context.TODO())
	if out != nil {
		if err := json.Unmarshal([]byte(response.Body), &out); err != nil {
			t.Fatalf("Failed to deserialize payload for %s %s: %s", method, path, response.Body)
		}
	}
	return response
}

func (ls *LocalServer) Options(t *testing.T, path string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "OPTIONS", path, nil, nil, nil)
}

func (ls *LocalServer) Get(t *testing.T, out any, path string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "GET", path, nil, &out, nil)
}

func (ls *LocalServer) Post(t *testing.T, out any, path string, body any) events.APIGatewayV2HTTPResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to serialize payload for POST %s: %s", path, err)
	}
	return ls.Request(t, "POST", path, payload, &out, nil)
}

func (ls *LocalServer) Put(t *testing.T, out any, path string, body any) events.APIGatewayV2HTTPResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to serialize payload for PUT %s: %s", path, err)
	}
	return ls.Request(t, "PUT", path, payload, out, nil)
}

func (ls *LocalServer) Delete(t *testing.T, path string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "DELETE", path, nil, nil, nil)
}

type ListSubscriptions struct {
	Items     []subscriptions.Subscription `json:"items"`
	NextToken []byte                       `json:"nextToken"`
}

type ListAudits struct {
	Items     []audits.Audit `json:"items"`
	NextToken []byte         `json:"nextToken"`
}

type Message struct {
	Message string `json:"message"`
}

func TestRouter(t *testing.T) {
	server := NewLocalServer(t)

	t.Run("PreflightCors", func(t *testing.T) {
		response := server.Options(t, "/subscriptions")
		if response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d", response.StatusCode)
		}
		if response.Headers["access-control-allow-origin"] != "*" {
			t.Errorf("Missing CORS headers: %v", response.Headers)
		}
	})

	t.Run("UnscopedPathIsUnauthorized", func(t *testing.T) {
		var message Message
		response := server.Get(t, &message, "/widgets")
		if response.StatusCode != 401 {
			t.Fatalf("Expected a 401, got %d", response.StatusCode)
		}
	})

	t.Run("ScopeMatchesWholeSegment", func(t *testing.T) {
		var message Message
		response := server.Get(t, &message, "/subscriptionsabc")
		if response.StatusCode != 401 {
			t.Fatalf("Expected a 401, got %d", response.StatusCode)
		}
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		var message Message
		response := server.Get(t, &message, "/subscriptions/nope/extra")
		if response.StatusCode != 404 {
			t.Fatalf("Expected a 404, got %d", response.StatusCode)
		}
	})

	t.Run("SubscriptionWorkflow", func(t *testing.T) {
		var created subscriptions.Subscription
		response := server.Post(t, &created, "/subscriptions", subscriptions.SubscriptionInput{
			Endpoint: _ref("https://example.com/hook"),
			Protocol: _ref("https"),
		})
		if response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d: %s", response.StatusCode, response.Body)
		}
		if created.Id == "" {
			t.Fatalf("Created subscription is missing an id: %s", response.Body)
		}

		var listing ListSubscriptions
		if response := server.Get(t, &listing, "/subscriptions"); response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d", response.StatusCode)
		}
		if len(listing.Items) != 1 || listing.Items[0].Id != created.Id {
			t.Errorf("Listing is missing the subscription: %v", listing.Items)
		}

		var fetched subscriptions.Subscription
		if response := server.Get(t, &fetched, "/subscriptions/"+created.Id); response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d", response.StatusCode)
		}
		if fetched.Endpoint != "https://example.com/hook" {
			t.Errorf("Fetched the wrong subscription: %v", fetched)
		}

		var attributes map[string]string
		if response := server.Get(t, &attributes, "/subscriptions/"+created.Id+"/attributes"); response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d", response.StatusCode)
		}
		if attributes["PendingConfirmation"] != "false" {
			t.Errorf("Unexpected attributes: %v", attributes)
		}

		response = server.Put(t, nil, "/subscriptions/"+created.Id+"/attributes", subscriptions.AttributeInput{
			Name:  _ref("RawMessageDelivery"),
			Value: _ref("true"),
		})
		if response.StatusCode != 204 {
			t.Fatalf("Expected a 204, got %d: %s", response.StatusCode, response.Body)
		}
		arn := maps.Keys(server.Notifications.Attributes)[0]
		if server.Notifications.Attributes[arn]["RawMessageDelivery"] != "true" {
			t.Errorf("Attribute was not applied: %v", server.Notifications.Attributes)
		}

		if response := server.Delete(t, "/subscriptions/"+created.Id); response.StatusCode != 204 {
			t.Fatalf("Expected a 204, got %d", response.StatusCode)
		}
		if len(server.Notifications.Cache) != 0 {
			t.Errorf("Subscription was not removed: %v", server.Notifications.Cache)
		}

		var message Message
		if response := server.Get(t, &message, "/subscriptions/"+created.Id); response.StatusCode != 404 {
			t.Fatalf("Expected a 404, got %d", response.StatusCode)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		if response := server.Delete(t, "/subscriptions/"+uuid.NewString()); response.StatusCode != 204 {
			t.Fatalf("Expected a 204, got %d", response.StatusCode)
		}
	})

	t.Run("UpdateSubscription", func(t *testing.T) {
		var created subscriptions.Subscription
		response := server.Post(t, &created, "/subscriptions", subscriptions.SubscriptionInput{
			Endpoint: _ref("https://example.com/old"),
			Protocol: _ref("https"),
		})
		if response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d: %s", response.StatusCode, response.Body)
		}
		if len(server.Notifications.Cache) != 1 {
			t.Fatalf("Expected a single subscription: %v", server.Notifications.Cache)
		}
		oldArn := maps.Keys(server.Notifications.Cache)[0]

		var updated subscriptions.Subscription
		response = server.Put(t, &updated, "/subscriptions/"+created.Id, subscriptions.SubscriptionInput{
			Endpoint: _ref("https://example.com/new"),
			Protocol: _ref("https"),
		})
		if response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d: %s", response.StatusCode, response.Body)
		}
		if updated.Id != created.Id || updated.Endpoint != "https://example.com/new" {
			t.Errorf("Update was not applied: %v", updated)
		}
		if len(server.Notifications.Cache) != 1 {
			t.Fatalf("Expected a single subscription: %v", server.Notifications.Cache)
		}
		newArn := maps.Keys(server.Notifications.Cache)[0]
		if newArn == oldArn {
			t.Errorf("Expected the old subscription %s to be replaced", oldArn)
		}
		if *server.Notifications.Cache[newArn].Endpoint != "https://example.com/new" {
			t.Errorf("Unexpected subscription: %v", server.Notifications.Cache[newArn])
		}

		var fetched subscriptions.Subscription
		if response := server.Get(t, &fetched, "/subscriptions/"+created.Id); response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d", response.StatusCode)
		}
		if fetched.Endpoint != "https://example.com/new" {
			t.Errorf("Update was not persisted: %v", fetched)
		}

		if response := server.Delete(t, "/subscriptions/"+created.Id); response.StatusCode != 204 {
			t.Fatalf("Expected a 204, got %d", response.StatusCode)
		}
	})

	t.Run("UpdateUnknownSubscription", func(t *testing.T) {
		var message Message
		response := server.Put(t, &message, "/subscriptions/"+uuid.NewString(), subscriptions.SubscriptionInput{
			Endpoint: _ref("https://example.com/new"),
			Protocol: _ref("https"),
		})
		if response.StatusCode != 404 {
			t.Fatalf("Expected a 404, got %d", response.StatusCode)
		}
	})

	t.Run("DanglingSubscriptionAttributes", func(t *testing.T) {
		seeded, err := server.Subscriptions.CreateWithItemId(server.Username, data.SubscriptionInputDTO{
			Endpoint:      _ref("https://example.com/stale"),
			Protocol:      _ref("https"),
			SubscriberArn: _ref("arn:aws:sns:us-east-1:012345678912:Notices:gone"),
		}, "stale")
		if err != nil {
			t.Fatalf("Failed to seed the subscription: %s", err)
		}
		var message Message
		response := server.Get(t, &message, "/subscriptions/"+seeded.SK+"/attributes")
		if response.StatusCode != 500 {
			t.Fatalf("Expected a 500, got %d: %s", response.StatusCode, response.Body)
		}
		if response := server.Delete(t, "/subscriptions/"+seeded.SK); response.StatusCode != 204 {
			t.Fatalf("Expected a 204, got %d", response.StatusCode)
		}
	})

	t.Run("MalformedSubscription", func(t *testing.T) {
		var message Message
		response := server.Post(t, &message, "/subscriptions", subscriptions.SubscriptionInput{})
		if response.StatusCode != 400 {
			t.Fatalf("Expected a 400, got %d", response.StatusCode)
		}
	})

	t.Run("EmptyAuditTrail", func(t *testing.T) {
		var listing ListAudits
		response := server.Get(t, &listing, "/audits")
		if response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d: %s", response.StatusCode, response.Body)
		}
		if len(listing.Items) != 0 {
			t.Errorf("Expected an empty trail: %v", listing.Items)
		}
	})

	t.Run("PublishNotice", func(t *testing.T) {
		var notice notices.Notice
		response := server.Post(t, &notice, "/notices", notices.NoticeInput{
			Subject: _ref("Hello"),
			Message: _ref("World"),
		})
		if response.StatusCode != 200 {
			t.Fatalf("Expected a 200, got %d: %s", response.StatusCode, response.Body)
		}
		if notice.MessageId != "message-1" {
			t.Errorf("Unexpected message id: %s", notice.MessageId)
		}
	})

	t.Run("NoticeRequiresMessage", func(t *testing.T) {
		var message Message
		response := server.Post(t, &message, "/notices", notices.NoticeInput{})
		if response.StatusCode != 400 {
			t.Fatalf("Expected a 400, got %d", response.StatusCode)
		}
	})
}

func _ref(value string) *string {
	return &value
}
