package push

import "testing"

func TestBuildPayloadDefaults(t *testing.T) {
	t.Run("assignment defaults fill empty title and body", func(t *testing.T) {
		payload := BuildPayload(Intent{RecipientID: "tech1", Kind: KindServiceAssignment}, AssignmentDefaults)

		if payload.Title != "Nuevo Servicio Asignado" {
			t.Errorf("expected default title, got %q", payload.Title)
		}
		if payload.Body != "Se te ha asignado un nuevo servicio" {
			t.Errorf("expected default body, got %q", payload.Body)
		}
	})

	t.Run("relay defaults leave body empty", func(t *testing.T) {
		payload := BuildPayload(Intent{RecipientID: "tech1", Title: "Hi"}, RelayDefaults)

		if payload.Title != "Hi" {
			t.Errorf("expected caller title, got %q", payload.Title)
		}
		if payload.Body != "" {
			t.Errorf("expected empty body, got %q", payload.Body)
		}
	})

	t.Run("caller fields win over defaults", func(t *testing.T) {
		payload := BuildPayload(Intent{Title: "T", Body: "B"}, AssignmentDefaults)

		if payload.Title != "T" || payload.Body != "B" {
			t.Errorf("expected caller title and body, got %q / %q", payload.Title, payload.Body)
		}
	})
}

func TestBuildPayloadFixedSchema(t *testing.T) {
	fixedKeys := []string{AttrServiceID, AttrServiceTitle, AttrClientName, AttrLocation}

	t.Run("all fixed keys present with nil attributes", func(t *testing.T) {
		payload := BuildPayload(Intent{}, AssignmentDefaults)

		for _, key := range fixedKeys {
			value, ok := payload.Data[key]
			if !ok {
				t.Errorf("expected key %q to be present", key)
			}
			if value != "" {
				t.Errorf("expected key %q to default to empty string, got %q", key, value)
			}
		}
	})

	t.Run("provided attributes are kept, missing ones defaulted", func(t *testing.T) {
		payload := BuildPayload(Intent{
			Attributes: map[string]string{AttrServiceID: "s1"},
		}, AssignmentDefaults)

		if payload.Data[AttrServiceID] != "s1" {
			t.Errorf("expected serviceId s1, got %q", payload.Data[AttrServiceID])
		}
		for _, key := range []string{AttrServiceTitle, AttrClientName, AttrLocation} {
			if payload.Data[key] != "" {
				t.Errorf("expected key %q to be empty, got %q", key, payload.Data[key])
			}
		}
	})

	t.Run("extra attributes are forwarded verbatim", func(t *testing.T) {
		payload := BuildPayload(Intent{
			Attributes: map[string]string{"serviceType": "Mantenimiento"},
		}, AssignmentDefaults)

		if payload.Data["serviceType"] != "Mantenimiento" {
			t.Errorf("expected extra attribute to be forwarded, got %q", payload.Data["serviceType"])
		}
		if len(payload.Data) != 5 {
			t.Errorf("expected 4 fixed keys plus 1 extra, got %d entries", len(payload.Data))
		}
	})

	t.Run("input attributes map is not mutated", func(t *testing.T) {
		attrs := map[string]string{"serviceType": "Mantenimiento"}
		BuildPayload(Intent{Attributes: attrs}, AssignmentDefaults)

		if len(attrs) != 1 {
			t.Errorf("expected input map untouched, got %d entries", len(attrs))
		}
	})
}
