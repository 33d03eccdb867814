package util

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/notifications/internal/data"
	"philcali.me/notifications/internal/exceptions"
	"philcali.me/notifications/internal/routes"
)

func AuthorizedRoute(route routes.Route) routes.Route {
	return func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		if jwt := event.RequestContext.Authorizer.JWT; jwt != nil {
			if username, ok := jwt.Claims["username"]; ok {
				return route(event, context.WithValue(ctx, "Username", username))
			}
		}
		if claims, ok := event.RequestContext.Authorizer.Lambda["jwt"].(map[string]interface{}); ok {
			if username, ok := claims["username"]; ok {
				return route(event, context.WithValue(ctx, "Username", fmt.Sprintf("%s", username)))
			}
		}
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer("Unexpected internal error")
	}
}

func Username(ctx context.Context) string {
	return fmt.Sprintf("%s", ctx.Value("Username"))
}

func RequestParam(ctx context.Context, name string) string {
	if params, ok := ctx.Value("Params").(map[string]string); ok {
		return params[name]
	}
	return ""
}

func ParseQueryParams(event events.APIGatewayV2HTTPRequest) data.QueryParams {
	params := data.QueryParams{}
	if limit, ok := event.QueryStringParameters["limit"]; ok {
		if parsed, err := strconv.Atoi(limit); err == nil {
			params.Limit = parsed
		}
	}
	if nextToken, ok := event.QueryStringParameters["nextToken"]; ok {
		params.NextToken = []byte(nextToken)
	}
	return params
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 204,
	}, nil
}

func ConvertQueryResults[D interface{}, R interface{}](items data.QueryResults[D], thunk func(D) R) data.QueryResults[R] {
	if items.Items != nil {
		newItems := make([]R, len(items.Items))
		for i, rd := range items.Items {
			newItems[i] = thunk(rd)
		}
		return data.QueryResults[R]{
			Items:     newItems,
			NextToken: items.NextToken,
		}
	}
	return data.QueryResults[R]{
		Items: make([]R, 0),
	}
}

func ConvertQueryResultsPartial[D interface{}, R interface{}](thunk func(D) R) func(data.QueryResults[D]) data.QueryResults[R] {
	return func(d data.QueryResults[D]) data.QueryResults[R] {
		return ConvertQueryResults(d, thunk)
	}
}

func SerializeList[T interface{}, I interface{}, R interface{}](repo data.Repository[T, I], convert func(T) R, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	results, err := repo.List(Username(ctx), ParseQueryParams(event))
	return SerializeResponseOK(ConvertQueryResultsPartial(convert), results, err)
}

func SerializeListByIndex[T interface{}, I interface{}, R interface{}](repo data.Repository[T, I], convert func(T) R, indexName string, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	results, err := repo.ListByIndex(Username(ctx), indexName, ParseQueryParams(event))
	return SerializeResponseOK(ConvertQueryResultsPartial(convert), results, err)
}
