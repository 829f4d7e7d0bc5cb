package ddb

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestDynamoDBStreamRecord_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		jsonData    string
		hasKeys     bool
		hasNewImage bool
		hasOldImage bool
		wantErr     bool
	}{
		{
			name: "insert with only NewImage",
			jsonData: `{
				"Keys": {
					"pk": {"S": "lesson-001"},
					"sk": {"S": "lessons"}
				},
				"NewImage": {
					"pk": {"S": "lesson-001"},
					"sk": {"S": "lessons"},
					"object": {
						"M": {
							"title": {"S": "交互设计入门"},
							"difficulty": {"S": "beginner"},
							"published": {"BOOL": true}
						}
					}
				},
				"SequenceNumber": "123456789",
				"SizeBytes": 512,
				"StreamViewType": "NEW_AND_OLD_IMAGES"
			}`,
			hasKeys:     true,
			hasNewImage: true,
		},
		{
			name: "remove with only OldImage",
			jsonData: `{
				"Keys": {
					"pk": {"S": "resource-042"},
					"sk": {"S": "resources"}
				},
				"OldImage": {
					"pk": {"S": "resource-042"},
					"sk": {"S": "resources"}
				},
				"SequenceNumber": "555666777",
				"SizeBytes": 256,
				"StreamViewType": "OLD_IMAGE"
			}`,
			hasKeys:     true,
			hasOldImage: true,
		},
		{
			name: "minimal record",
			jsonData: `{
				"SequenceNumber": "000111222",
				"SizeBytes": 100,
				"StreamViewType": "KEYS_ONLY"
			}`,
		},
		{
			name:     "invalid JSON",
			jsonData: `{"invalid": json}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record DynamoDBStreamRecord
			err := json.Unmarshal([]byte(tt.jsonData), &record)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if tt.hasKeys != (record.Keys != nil) {
				t.Errorf("Keys presence mismatch: got %v, want %v", record.Keys != nil, tt.hasKeys)
			}
			if tt.hasNewImage != (record.NewImage != nil) {
				t.Errorf("NewImage presence mismatch: got %v, want %v", record.NewImage != nil, tt.hasNewImage)
			}
			if tt.hasOldImage != (record.OldImage != nil) {
				t.Errorf("OldImage presence mismatch: got %v, want %v", record.OldImage != nil, tt.hasOldImage)
			}
		})
	}
}

func TestDynamoDBEvent_UnmarshalJSON(t *testing.T) {
	jsonData := `{
		"Records": [
			{
				"awsRegion": "us-east-1",
				"eventID": "event-1",
				"eventName": "INSERT",
				"eventSource": "aws:dynamodb",
				"eventVersion": "1.1",
				"eventSourceARN": "arn:aws:dynamodb:us-east-1:123456789:table/content/stream/2026-01-01T00:00:00.000",
				"dynamodb": {
					"Keys": {
						"pk": {"S": "lesson-001"},
						"sk": {"S": "lessons"}
					},
					"SequenceNumber": "111",
					"SizeBytes": 100,
					"StreamViewType": "NEW_IMAGE"
				}
			},
			{
				"awsRegion": "us-east-1",
				"eventID": "event-2",
				"eventName": "REMOVE",
				"eventSource": "aws:dynamodb",
				"eventVersion": "1.1",
				"eventSourceARN": "arn:aws:dynamodb:us-east-1:123456789:table/content/stream/2026-01-01T00:00:00.000",
				"dynamodb": {
					"SequenceNumber": "222",
					"SizeBytes": 200,
					"StreamViewType": "NEW_AND_OLD_IMAGES"
				}
			}
		]
	}`

	var event DynamoDBEvent
	if err := json.Unmarshal([]byte(jsonData), &event); err != nil {
		t.Fatalf("Failed to unmarshal DynamoDBEvent: %v", err)
	}

	if len(event.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(event.Records))
	}

	if event.Records[0].EventName != "INSERT" {
		t.Errorf("First record EventName mismatch: got %s, want INSERT", event.Records[0].EventName)
	}

	if event.Records[1].EventName != "REMOVE" {
		t.Errorf("Second record EventName mismatch: got %s, want REMOVE", event.Records[1].EventName)
	}

	pk, ok := event.Records[0].Change.Keys["pk"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "lesson-001" {
		t.Errorf("Expected pk to be 'lesson-001', got %v", event.Records[0].Change.Keys["pk"])
	}
}

func TestUnmarshalAttributeValueMap(t *testing.T) {
	jsonData := `{
		"pk": {"S": "card-007"},
		"count": {"N": "30"},
		"published": {"BOOL": true},
		"deleted": {"NULL": true},
		"tags": {"SS": ["color", "theory"]},
		"object": {
			"M": {
				"nested": {"S": "value"},
				"items": {
					"L": [
						{"S": "first"},
						{"N": "2"}
					]
				}
			}
		}
	}`

	m, err := UnmarshalAttributeValueMap([]byte(jsonData))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s, ok := m["pk"].(*types.AttributeValueMemberS); !ok || s.Value != "card-007" {
		t.Errorf("Expected pk S member 'card-007', got %v", m["pk"])
	}
	if n, ok := m["count"].(*types.AttributeValueMemberN); !ok || n.Value != "30" {
		t.Errorf("Expected count N member '30', got %v", m["count"])
	}
	if b, ok := m["published"].(*types.AttributeValueMemberBOOL); !ok || !b.Value {
		t.Errorf("Expected published BOOL member true, got %v", m["published"])
	}
	if _, ok := m["deleted"].(*types.AttributeValueMemberNULL); !ok {
		t.Errorf("Expected deleted NULL member, got %v", m["deleted"])
	}
	if ss, ok := m["tags"].(*types.AttributeValueMemberSS); !ok || len(ss.Value) != 2 {
		t.Errorf("Expected tags SS member with 2 values, got %v", m["tags"])
	}

	obj, ok := m["object"].(*types.AttributeValueMemberM)
	if !ok {
		t.Fatalf("Expected object M member, got %v", m["object"])
	}
	list, ok := obj.Value["items"].(*types.AttributeValueMemberL)
	if !ok || len(list.Value) != 2 {
		t.Fatalf("Expected items L member with 2 values, got %v", obj.Value["items"])
	}

	if _, err := UnmarshalAttributeValueMap([]byte(`{"pk": {"X": "oops"}}`)); err == nil {
		t.Error("Expected error for unsupported attribute type")
	}
}

func TestUnmarshalRecord(t *testing.T) {
	jsonData := `{
		"pk": {"S": "work-314"},
		"sk": {"S": "studentWorks"},
		"object": {
			"M": {
				"title": {"S": "循环海报习作"},
				"author": {"S": "Li Wei"},
				"published": {"BOOL": true},
				"score": {"N": "92.5"},
				"tags": {
					"L": [
						{"S": "poster"},
						{"S": "loop"}
					]
				}
			}
		}
	}`

	image, err := UnmarshalAttributeValueMap([]byte(jsonData))
	if err != nil {
		t.Fatalf("Failed to unmarshal image: %v", err)
	}

	record, err := UnmarshalRecord(image)
	if err != nil {
		t.Fatalf("UnmarshalRecord failed: %v", err)
	}

	if record.ID != "work-314" {
		t.Errorf("ID mismatch: got %s, want work-314", record.ID)
	}

	if record.Category != "studentWorks" {
		t.Errorf("Category mismatch: got %s, want studentWorks", record.Category)
	}

	if record.Object == nil {
		t.Fatal("Object should not be nil")
	}

	if title, ok := record.Object["title"]; !ok || title != "循环海报习作" {
		t.Errorf("Object.title mismatch: got %v", title)
	}

	if score, ok := record.Object["score"]; !ok || score != 92.5 {
		t.Errorf("Object.score mismatch: got %v, want 92.5", score)
	}

	if published, ok := record.Object["published"]; !ok || published != true {
		t.Errorf("Object.published mismatch: got %v, want true", published)
	}

	tags, ok := record.Object["tags"].([]interface{})
	if !ok || len(tags) != 2 {
		t.Fatalf("Object.tags should be a 2-element slice, got %v", record.Object["tags"])
	}
	if tags[0] != "poster" || tags[1] != "loop" {
		t.Errorf("Object.tags mismatch: got %v", tags)
	}
}
