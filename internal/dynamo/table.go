// Package dynamo holds the DynamoDB access helpers shared by the stores.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
)

// ErrConditionFailed indicates a conditional write or transaction condition failed.
var ErrConditionFailed = errors.New("conditional check failed")

// Table binds a client to a table with a single string partition key.
type Table struct {
	client aws.DynamoDBAPI
	name   string
	key    string
}

// NewTable returns a Table for name keyed by the attribute key.
func NewTable(client aws.DynamoDBAPI, name, key string) *Table {
	return &Table{client: client, name: name, key: key}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Client returns the underlying client.
func (t *Table) Client() aws.DynamoDBAPI { return t.client }

func (t *Table) keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		t.key: &types.AttributeValueMemberS{Value: id},
	}
}

// Get loads the item with id into out. It reports false when no item exists.
func (t *Table) Get(ctx context.Context, id string, out any) (bool, error) {
	res, err := t.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &t.name,
		Key:       t.keyOf(id),
	})
	if err != nil {
		return false, fmt.Errorf("get item: %w", err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal item: %w", err)
	}
	return true, nil
}

// Put writes item unconditionally.
func (t *Table) Put(ctx context.Context, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := t.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &t.name,
		Item:      av,
	}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Create writes item only if no item with the same key exists.
// It returns ErrConditionFailed otherwise.
func (t *Table) Create(ctx context.Context, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = t.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                &t.name,
		Item:                     av,
		ConditionExpression:      awsString("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": t.key},
	})
	if err != nil {
		if IsConditionFailed(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Delete removes the item with id. It reports false when nothing was there.
func (t *Table) Delete(ctx context.Context, id string) (bool, error) {
	_, err := t.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:                &t.name,
		Key:                      t.keyOf(id),
		ConditionExpression:      awsString("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": t.key},
	})
	if err != nil {
		if IsConditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete item: %w", err)
	}
	return true, nil
}

// DeleteIf removes an item whose attributes match expect. It returns
// ErrConditionFailed when the item is missing or an expectation does not hold.
func (t *Table) DeleteIf(ctx context.Context, id string, expect map[string]any) error {
	names := map[string]string{"#pk": t.key}
	values := map[string]types.AttributeValue{}
	cond, err := condition(expect, names, values)
	if err != nil {
		return err
	}
	in := &dyn.DeleteItemInput{
		TableName:                &t.name,
		Key:                      t.keyOf(id),
		ConditionExpression:      awsString(cond),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		in.ExpressionAttributeValues = values
	}
	if _, err := t.client.DeleteItem(ctx, in); err != nil {
		if IsConditionFailed(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Update sets the given attributes on an existing item. Every entry in
// expect must equal the stored value. It returns ErrConditionFailed when the
// item is missing or an expectation does not hold.
func (t *Table) Update(ctx context.Context, id string, set, expect map[string]any) error {
	u, err := t.buildUpdate(id, set, expect)
	if err != nil {
		return err
	}
	_, err = t.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 u.TableName,
		Key:                       u.Key,
		UpdateExpression:          u.UpdateExpression,
		ConditionExpression:       u.ConditionExpression,
		ExpressionAttributeNames:  u.ExpressionAttributeNames,
		ExpressionAttributeValues: u.ExpressionAttributeValues,
	})
	if err != nil {
		if IsConditionFailed(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// QueryIndex loads every item of index whose attr equals value into out,
// which must be a pointer to a slice.
func (t *Table) QueryIndex(ctx context.Context, index, attr, value string, out any) error {
	var items []map[string]types.AttributeValue
	var start map[string]types.AttributeValue
	for {
		res, err := t.client.Query(ctx, &dyn.QueryInput{
			TableName:                 &t.name,
			IndexName:                 &index,
			KeyConditionExpression:    awsString("#k = :v"),
			ExpressionAttributeNames:  map[string]string{"#k": attr},
			ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
			ExclusiveStartKey:         start,
		})
		if err != nil {
			return fmt.Errorf("query %s: %w", index, err)
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		start = res.LastEvaluatedKey
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal items: %w", err)
	}
	return nil
}

// ScanAll loads every item of the table into out, a pointer to a slice.
func (t *Table) ScanAll(ctx context.Context, out any) error {
	var items []map[string]types.AttributeValue
	var start map[string]types.AttributeValue
	for {
		res, err := t.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &t.name,
			ExclusiveStartKey: start,
		})
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		start = res.LastEvaluatedKey
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal items: %w", err)
	}
	return nil
}

// PutItem returns a transactional put of item. When mustNotExist is set
// the put fails if the key is already taken.
func (t *Table) PutItem(item any, mustNotExist bool) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("marshal item: %w", err)
	}
	put := &types.Put{TableName: &t.name, Item: av}
	if mustNotExist {
		put.ConditionExpression = awsString("attribute_not_exists(#pk)")
		put.ExpressionAttributeNames = map[string]string{"#pk": t.key}
	}
	return types.TransactWriteItem{Put: put}, nil
}

// DeleteItem returns a transactional unconditional delete.
func (t *Table) DeleteItem(id string) types.TransactWriteItem {
	return types.TransactWriteItem{Delete: &types.Delete{
		TableName: &t.name,
		Key:       t.keyOf(id),
	}}
}

// UpdateItem returns a transactional form of Update.
func (t *Table) UpdateItem(id string, set, expect map[string]any) (types.TransactWriteItem, error) {
	u, err := t.buildUpdate(id, set, expect)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Update: u}, nil
}

func (t *Table) buildUpdate(id string, set, expect map[string]any) (*types.Update, error) {
	names := map[string]string{"#pk": t.key}
	values := map[string]types.AttributeValue{}

	var assigns []string
	for i, field := range sortedKeys(set) {
		av, err := attributevalue.Marshal(set[field])
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", field, err)
		}
		n, v := fmt.Sprintf("#s%d", i), fmt.Sprintf(":s%d", i)
		names[n] = field
		values[v] = av
		assigns = append(assigns, n+" = "+v)
	}

	cond, err := condition(expect, names, values)
	if err != nil {
		return nil, err
	}

	return &types.Update{
		TableName:                 &t.name,
		Key:                       t.keyOf(id),
		UpdateExpression:          awsString("SET " + strings.Join(assigns, ", ")),
		ConditionExpression:       awsString(cond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}, nil
}

// condition requires the item to exist and every entry of expect to match.
// names must already map #pk.
func condition(expect map[string]any, names map[string]string, values map[string]types.AttributeValue) (string, error) {
	conds := []string{"attribute_exists(#pk)"}
	for i, field := range sortedKeys(expect) {
		av, err := attributevalue.Marshal(expect[field])
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", field, err)
		}
		n, v := fmt.Sprintf("#c%d", i), fmt.Sprintf(":c%d", i)
		names[n] = field
		values[v] = av
		conds = append(conds, n+" = "+v)
	}
	return strings.Join(conds, " AND "), nil
}

// Transact issues items as one TransactWriteItems call. A transaction
// cancelled by a failed condition is reported as ErrConditionFailed.
func Transact(ctx context.Context, client aws.DynamoDBAPI, items ...types.TransactWriteItem) error {
	_, err := client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, r := range tce.CancellationReasons {
			if r.Code != nil && *r.Code == "ConditionalCheckFailed" {
				return ErrConditionFailed
			}
		}
		return fmt.Errorf("transaction canceled: %w", err)
	}
	return fmt.Errorf("transact write: %w", err)
}

// IsConditionFailed reports whether err is a DynamoDB conditional check failure.
func IsConditionFailed(err error) bool {
	var sc *types.ConditionalCheckFailedException
	return errors.As(err, &sc) || errors.Is(err, ErrConditionFailed)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func awsString(s string) *string { return &s }
