package routes

import (
	"fmt"

	gql "github.com/graphql-go/graphql"
	"github.com/hostelease/hostelease/pkg/graphql"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/middleware"
	"github.com/hostelease/hostelease/pkg/router"
)

// registerGraphQL mounts the read-only query endpoint: the catalog and the
// caller's own orders. Mutations stay REST-only.
func registerGraphQL(g *router.Group, d *Deps) {
	productType := gql.NewObject(gql.ObjectConfig{
		Name: "Product",
		Fields: gql.Fields{
			"id":    &gql.Field{Type: gql.Int},
			"name":  &gql.Field{Type: gql.String},
			"price": &gql.Field{Type: gql.Float},
			"image": &gql.Field{Type: gql.String},
		},
	})

	orderItemType := gql.NewObject(gql.ObjectConfig{
		Name: "OrderItem",
		Fields: gql.Fields{
			"productId": &gql.Field{Type: gql.Int},
			"name":      &gql.Field{Type: gql.String},
			"price":     &gql.Field{Type: gql.Float},
			"quantity":  &gql.Field{Type: gql.Int},
		},
	})

	orderType := gql.NewObject(gql.ObjectConfig{
		Name: "Order",
		Fields: gql.Fields{
			"id":            &gql.Field{Type: gql.Int},
			"orderType":     &gql.Field{Type: gql.String},
			"totalPrice":    &gql.Field{Type: gql.Float},
			"status":        &gql.Field{Type: gql.String},
			"paymentStatus": &gql.Field{Type: gql.String},
			"items":         &gql.Field{Type: gql.NewList(orderItemType)},
		},
	})

	rootQuery := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return d.Products.List()
				},
			},
			"myOrders": &gql.Field{
				Type: gql.NewList(orderType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, ok := middleware.IdentityFromCtx(p.Context)
					if !ok {
						return nil, fmt.Errorf("not authenticated")
					}
					return d.Orders.MyOrders(id.UserID)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(rootQuery)
	if err != nil {
		logger.Error("graphql: schema build failed", "error", err)
		return
	}

	handler := graphql.Handler(schema)
	g.Post("/graphql", "graphql", handler.ServeHTTP)
	g.Get("/graphql", "", handler.ServeHTTP)
}
