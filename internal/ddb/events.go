// Package ddb handles DynamoDB stream events for the content table. Content
// items live under pk = content ID and sk = content category, with the
// searchable document in the object attribute.
package ddb

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBEvent represents a DynamoDB stream event
type DynamoDBEvent struct {
	Records []DynamoDBEventRecord `json:"Records"`
}

// DynamoDBEventRecord represents a single DynamoDB stream record
type DynamoDBEventRecord struct {
	AWSRegion      string               `json:"awsRegion"`
	Change         DynamoDBStreamRecord `json:"dynamodb"`
	EventID        string               `json:"eventID"`
	EventName      string               `json:"eventName"`
	EventSource    string               `json:"eventSource"`
	EventVersion   string               `json:"eventVersion"`
	EventSourceArn string               `json:"eventSourceARN"`
}

// DynamoDBStreamRecord represents the DynamoDB stream data
type DynamoDBStreamRecord struct {
	ApproximateCreationDateTime int64             `json:"ApproximateCreationDateTime,omitempty"`
	Keys                        AttributeValueMap `json:"Keys,omitempty"`
	NewImage                    AttributeValueMap `json:"NewImage,omitempty"`
	OldImage                    AttributeValueMap `json:"OldImage,omitempty"`
	SequenceNumber              string            `json:"SequenceNumber"`
	SizeBytes                   int64             `json:"SizeBytes"`
	StreamViewType              string            `json:"StreamViewType"`
}

// DynamoDBOperationType represents the type of DynamoDB operation
type DynamoDBOperationType string

const (
	DynamoDBOperationTypeInsert DynamoDBOperationType = "INSERT"
	DynamoDBOperationTypeModify DynamoDBOperationType = "MODIFY"
	DynamoDBOperationTypeRemove DynamoDBOperationType = "REMOVE"
)

// AttributeValueMap decodes DynamoDB JSON ({"S": ...}, {"N": ...}, and so on)
// into SDK attribute values. Stream events arrive in DynamoDB JSON, which the
// SDK types cannot unmarshal directly because AttributeValue is an interface.
type AttributeValueMap map[string]types.AttributeValue

// UnmarshalJSON implements json.Unmarshaler for AttributeValueMap.
func (m *AttributeValueMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(AttributeValueMap, len(raw))
	for key, value := range raw {
		av, err := unmarshalAttributeValue(value)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", key, err)
		}
		result[key] = av
	}

	*m = result
	return nil
}

// UnmarshalAttributeValueMap decodes a DynamoDB JSON document into an
// attribute value map.
func UnmarshalAttributeValueMap(data []byte) (map[string]types.AttributeValue, error) {
	var m AttributeValueMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func unmarshalAttributeValue(data json.RawMessage) (types.AttributeValue, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}

	for kind, value := range wrapper {
		switch kind {
		case "S":
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberS{Value: s}, nil
		case "N":
			var n string
			if err := json.Unmarshal(value, &n); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberN{Value: n}, nil
		case "BOOL":
			var b bool
			if err := json.Unmarshal(value, &b); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberBOOL{Value: b}, nil
		case "NULL":
			return &types.AttributeValueMemberNULL{Value: true}, nil
		case "SS":
			var ss []string
			if err := json.Unmarshal(value, &ss); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberSS{Value: ss}, nil
		case "NS":
			var ns []string
			if err := json.Unmarshal(value, &ns); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberNS{Value: ns}, nil
		case "M":
			var nested AttributeValueMap
			if err := json.Unmarshal(value, &nested); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberM{Value: nested}, nil
		case "L":
			var items []json.RawMessage
			if err := json.Unmarshal(value, &items); err != nil {
				return nil, err
			}
			list := make([]types.AttributeValue, 0, len(items))
			for _, item := range items {
				av, err := unmarshalAttributeValue(item)
				if err != nil {
					return nil, err
				}
				list = append(list, av)
			}
			return &types.AttributeValueMemberL{Value: list}, nil
		}
	}

	return nil, fmt.Errorf("unsupported attribute value: %s", string(data))
}

// Record represents a processed content record with extracted fields
type Record struct {
	ID       string         `dynamodbav:"pk"`     // content ID
	Category string         `dynamodbav:"sk"`     // content category
	Object   map[string]any `dynamodbav:"object"` // searchable document
}

// UnmarshalRecord converts a DynamoDB image into a Record struct
func UnmarshalRecord(image map[string]types.AttributeValue) (Record, error) {
	var record Record
	err := attributevalue.UnmarshalMap(image, &record)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}
