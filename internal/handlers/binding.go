package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat decodes the request body into obj, accepting either a
// payload wrapped under a resource key ({"booking": {...}}) or the same
// fields at the top level. Some API clients wrap, some send flat; both must
// land on the same request struct. The body is rewound afterwards so a later
// bind can still read it.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil {
		if nested, ok := wrapper[key]; ok {
			return json.Unmarshal(nested, obj)
		}
	}

	return json.Unmarshal(body, obj)
}
