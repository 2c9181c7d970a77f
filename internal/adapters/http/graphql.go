package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/paulmach/orb"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

func pointValue(p domain.Point) map[string]interface{} {
	return map[string]interface{}{"lng": p.Lon(), "lat": p.Lat()}
}

func polygonValue(p domain.Polygon) map[string]interface{} {
	ring := make([]interface{}, len(p.Ring))
	for i, pt := range p.Ring {
		ring[i] = pointValue(pt)
	}
	return map[string]interface{}{
		"id":        p.ID.String(),
		"name":      p.Name,
		"ring":      ring,
		"centroid":  pointValue(geospatial.Centroid(p.Ring)),
		"perimeter": geospatial.PathLength(orb.LineString(p.Ring)),
	}
}

func objectValues(objects []domain.MapObject) []interface{} {
	out := make([]interface{}, len(objects))
	for i, o := range objects {
		out[i] = map[string]interface{}{
			"id":       o.ID.String(),
			"type":     o.Type,
			"position": pointValue(o.Position),
		}
	}
	return out
}

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	lngLatType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LngLat",
		Fields: graphql.Fields{
			"lng": &graphql.Field{Type: graphql.Float},
			"lat": &graphql.Field{Type: graphql.Float},
		},
	})

	polygonType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Polygon",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"ring":      &graphql.Field{Type: graphql.NewList(lngLatType), Description: "Closed exterior ring"},
			"centroid":  &graphql.Field{Type: lngLatType},
			"perimeter": &graphql.Field{Type: graphql.Float, Description: "Great-circle length of the ring in meters"},
		},
	})

	objectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapObject",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"type":     &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: lngLatType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"polygons": &graphql.Field{
				Type:        graphql.NewList(polygonType),
				Description: "List all polygons",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					polygons, err := deps.Polygons.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]interface{}, len(polygons))
					for i, poly := range polygons {
						out[i] = polygonValue(poly)
					}
					return out, nil
				},
			},
			"polygon": &graphql.Field{
				Type:        polygonType,
				Description: "Get a polygon by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					poly, err := deps.Polygons.Get(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return polygonValue(*poly), nil
				},
			},
			"objects": &graphql.Field{
				Type:        graphql.NewList(objectType),
				Description: "List all map objects",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					objects, err := deps.Objects.List(p.Context)
					if err != nil {
						return nil, err
					}
					return objectValues(objects), nil
				},
			},
			"objectsInPolygon": &graphql.Field{
				Type:        graphql.NewList(objectType),
				Description: "Objects enclosed by a polygon",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					objects, err := deps.Objects.InPolygon(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return objectValues(objects), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
