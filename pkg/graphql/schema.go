// Package graphql wraps graphql-go with a schema constructor and an HTTP
// handler so the API can expose a read-only query endpoint.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// NewSchema creates a GraphQL schema from the provided root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler returns an http.Handler that executes GraphQL queries against
// schema. POST bodies follow the usual {query, operationName, variables}
// shape; GET accepts ?query= for quick inspection.
func Handler(schema graphql.Schema) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request

		switch r.Method {
		case http.MethodGet:
			req.Query = r.URL.Query().Get("query")
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"errors":[{"message":"invalid request body"}]}`,
					http.StatusBadRequest)
				return
			}
		default:
			http.Error(w, `{"errors":[{"message":"method not allowed"}]}`,
				http.StatusMethodNotAllowed)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	})
}
