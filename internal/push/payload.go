package push

// Defaults lists how missing title and body fields are filled. The two entry
// points historically used different wording, so each carries its own set.
type Defaults struct {
	Title string
	Body  string
}

// AssignmentDefaults is used by the Trigger Adapter for service-assignment
// records coming out of the change feed.
var AssignmentDefaults = Defaults{
	Title: "Nuevo Servicio Asignado",
	Body:  "Se te ha asignado un nuevo servicio",
}

// RelayDefaults is used by the HTTP relay. The mobile client sends its own
// body, so only the title gets a fallback.
var RelayDefaults = Defaults{
	Title: "Nuevo Servicio",
	Body:  "",
}

// BuildPayload normalizes an intent into a payload. It is total: malformed or
// missing fields degrade to defaults, never to an error. All provided
// attributes are copied through, and the four fixed service-assignment keys
// are always present, defaulting to "".
func BuildPayload(intent Intent, defaults Defaults) Payload {
	title := intent.Title
	if title == "" {
		title = defaults.Title
	}

	body := intent.Body
	if body == "" {
		body = defaults.Body
	}

	data := make(map[string]string, len(intent.Attributes)+4)
	for k, v := range intent.Attributes {
		data[k] = v
	}
	for _, key := range []string{AttrServiceID, AttrServiceTitle, AttrClientName, AttrLocation} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}

	return Payload{
		Title: title,
		Body:  body,
		Data:  data,
	}
}
