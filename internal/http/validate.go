package http

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaTransaction   = "transaction"
	schemaAnomaly       = "anomaly"
	schemaAnomalyStatus = "anomaly_status"
	schemaSettings      = "settings"
	schemaCredentials   = "credentials"

	maxBodyBytes = 1 << 20
)

type schemas struct {
	byName map[string]*gojsonschema.Schema
}

func mustLoadSchemas() *schemas {
	names := []string{schemaTransaction, schemaAnomaly, schemaAnomalyStatus, schemaSettings, schemaCredentials}
	s := &schemas{byName: make(map[string]*gojsonschema.Schema, len(names))}
	for _, name := range names {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		s.byName[name] = schema
	}
	return s
}

// bindValid checks the request body against the named schema and decodes it
// into dst. On failure it writes the response and returns false.
func (s *Server) bindValid(c *gin.Context, name string, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid_body"})
		return false
	}
	if len(body) == 0 {
		c.JSON(400, gin.H{"error": "empty_body"})
		return false
	}

	res, err := s.schemas.byName[name].Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid_json"})
		return false
	}
	if !res.Valid() {
		d := []string{}
		for _, e := range res.Errors() {
			d = append(d, e.String())
		}
		c.JSON(422, gin.H{"error": "schema_invalid", "details": d})
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		c.JSON(400, gin.H{"error": "invalid_json"})
		return false
	}
	return true
}
