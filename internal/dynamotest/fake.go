// Package dynamotest provides an in-memory DynamoDB used by store tests.
//
// It understands the expression subset the stores emit: clauses joined by
// AND of the forms attribute_exists(x), attribute_not_exists(x), x = :v and
// x <> :v, and update expressions of the form SET a = :x, b = :y [REMOVE c].
// NOTE: this is not a general expression evaluator.
package dynamotest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

type table struct {
	key     string
	indexes map[string]string // index name -> attribute
	items   map[string]item
}

// Fake implements aws.DynamoDBAPI.
type Fake struct {
	mu     sync.Mutex
	tables map[string]*table

	// Err, when set, is consulted before every call. A non-nil result is
	// returned instead of performing the operation. table is empty for
	// TransactWriteItems.
	Err func(op, table string) error

	Calls map[string]int
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{tables: map[string]*table{}, Calls: map[string]int{}}
}

// AddTable registers a table keyed by key with optional global secondary
// indexes given as name -> attribute pairs.
func (f *Fake) AddTable(name, key string, indexes map[string]string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if indexes == nil {
		indexes = map[string]string{}
	}
	f.tables[name] = &table{key: key, indexes: indexes, items: map[string]item{}}
	return f
}

// Seed marshals v and stores it, bypassing conditions.
func (f *Fake) Seed(tbl string, v any) error {
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(tbl)
	if err != nil {
		return err
	}
	pk, err := keyValue(av, t.key)
	if err != nil {
		return err
	}
	t.items[pk] = av
	return nil
}

// Load unmarshals the stored item id of tbl into out. It reports whether it exists.
func (f *Fake) Load(tbl, id string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(tbl)
	if err != nil {
		return false, err
	}
	it, ok := t.items[id]
	if !ok {
		return false, nil
	}
	return true, attributevalue.UnmarshalMap(it, out)
}

// Count returns the number of items in tbl.
func (f *Fake) Count(tbl string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tables[tbl]; ok {
		return len(t.items)
	}
	return 0
}

func (f *Fake) table(name string) (*table, error) {
	t, ok := f.tables[name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: strPtr("table not found: " + name)}
	}
	return t, nil
}

func (f *Fake) before(op, tbl string) error {
	f.Calls[op]++
	if f.Err != nil {
		return f.Err(op, tbl)
	}
	return nil
}

func (f *Fake) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("GetItem", *params.TableName); err != nil {
		return nil, err
	}
	t, err := f.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Key, t.key)
	if err != nil {
		return nil, err
	}
	it, ok := t.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: copyItem(it)}, nil
}

func (f *Fake) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("PutItem", *params.TableName); err != nil {
		return nil, err
	}
	t, err := f.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Item, t.key)
	if err != nil {
		return nil, err
	}
	ok, err := check(params.ConditionExpression, t.items[pk], params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("put condition failed")}
	}
	t.items[pk] = copyItem(params.Item)
	return &dyn.PutItemOutput{}, nil
}

func (f *Fake) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("DeleteItem", *params.TableName); err != nil {
		return nil, err
	}
	t, err := f.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Key, t.key)
	if err != nil {
		return nil, err
	}
	ok, err := check(params.ConditionExpression, t.items[pk], params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("delete condition failed")}
	}
	old := t.items[pk]
	delete(t.items, pk)
	return &dyn.DeleteItemOutput{Attributes: old}, nil
}

func (f *Fake) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("UpdateItem", *params.TableName); err != nil {
		return nil, err
	}
	t, err := f.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	pk, err := keyValue(params.Key, t.key)
	if err != nil {
		return nil, err
	}
	ok, err := check(params.ConditionExpression, t.items[pk], params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("update condition failed")}
	}
	updated, err := applyUpdate(t, pk, params.Key, deref(params.UpdateExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return &dyn.UpdateItemOutput{Attributes: copyItem(updated)}, nil
}

func (f *Fake) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("Query", *params.TableName); err != nil {
		return nil, err
	}
	t, err := f.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	if params.IndexName != nil {
		if _, ok := t.indexes[*params.IndexName]; !ok {
			return nil, fmt.Errorf("unknown index %s on %s", *params.IndexName, *params.TableName)
		}
	}
	var out []item
	for _, pk := range sortedPKs(t) {
		it := t.items[pk]
		ok, err := check(params.KeyConditionExpression, it, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if ok, err = check(params.FilterExpression, it, params.ExpressionAttributeNames, params.ExpressionAttributeValues); err != nil {
			return nil, err
		} else if ok {
			out = append(out, copyItem(it))
		}
	}
	return &dyn.QueryOutput{Items: out, Count: int32(len(out))}, nil
}

func (f *Fake) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("Scan", *params.TableName); err != nil {
		return nil, err
	}
	t, err := f.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	var out []item
	for _, pk := range sortedPKs(t) {
		it := t.items[pk]
		ok, err := check(params.FilterExpression, it, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, copyItem(it))
		}
	}
	return &dyn.ScanOutput{Items: out, Count: int32(len(out))}, nil
}

func (f *Fake) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.before("TransactWriteItems", ""); err != nil {
		return nil, err
	}

	type op struct {
		t    *table
		pk   string
		twi  types.TransactWriteItem
		cond *string
		nm   map[string]string
		vals map[string]types.AttributeValue
	}
	ops := make([]op, 0, len(params.TransactItems))
	reasons := make([]types.CancellationReason, 0, len(params.TransactItems))
	failed := false

	for _, twi := range params.TransactItems {
		var (
			tblName *string
			keyAttr item
			o       = op{twi: twi}
		)
		switch {
		case twi.Put != nil:
			tblName, keyAttr = twi.Put.TableName, twi.Put.Item
			o.cond, o.nm, o.vals = twi.Put.ConditionExpression, twi.Put.ExpressionAttributeNames, twi.Put.ExpressionAttributeValues
		case twi.Delete != nil:
			tblName, keyAttr = twi.Delete.TableName, twi.Delete.Key
			o.cond, o.nm, o.vals = twi.Delete.ConditionExpression, twi.Delete.ExpressionAttributeNames, twi.Delete.ExpressionAttributeValues
		case twi.Update != nil:
			tblName, keyAttr = twi.Update.TableName, twi.Update.Key
			o.cond, o.nm, o.vals = twi.Update.ConditionExpression, twi.Update.ExpressionAttributeNames, twi.Update.ExpressionAttributeValues
		case twi.ConditionCheck != nil:
			tblName, keyAttr = twi.ConditionCheck.TableName, twi.ConditionCheck.Key
			o.cond, o.nm, o.vals = twi.ConditionCheck.ConditionExpression, twi.ConditionCheck.ExpressionAttributeNames, twi.ConditionCheck.ExpressionAttributeValues
		default:
			return nil, errors.New("empty transact item")
		}
		t, err := f.table(*tblName)
		if err != nil {
			return nil, err
		}
		pk, err := keyValue(keyAttr, t.key)
		if err != nil {
			return nil, err
		}
		o.t, o.pk = t, pk
		ok, err := check(o.cond, t.items[pk], o.nm, o.vals)
		if err != nil {
			return nil, err
		}
		code := "None"
		if !ok {
			code = "ConditionalCheckFailed"
			failed = true
		}
		reasons = append(reasons, types.CancellationReason{Code: strPtr(code)})
		ops = append(ops, o)
	}

	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             strPtr("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	for _, o := range ops {
		switch {
		case o.twi.Put != nil:
			o.t.items[o.pk] = copyItem(o.twi.Put.Item)
		case o.twi.Delete != nil:
			delete(o.t.items, o.pk)
		case o.twi.Update != nil:
			if _, err := applyUpdate(o.t, o.pk, o.twi.Update.Key, deref(o.twi.Update.UpdateExpression), o.nm, o.vals); err != nil {
				return nil, err
			}
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func applyUpdate(t *table, pk string, key item, expr string, names map[string]string, values map[string]types.AttributeValue) (item, error) {
	it, ok := t.items[pk]
	if !ok {
		it = copyItem(key)
	} else {
		it = copyItem(it)
	}

	setPart, removePart := expr, ""
	if i := strings.Index(expr, " REMOVE "); i >= 0 {
		setPart, removePart = expr[:i], expr[i+len(" REMOVE "):]
	}
	setPart = strings.TrimSpace(setPart)
	if strings.HasPrefix(setPart, "SET ") {
		for _, assign := range strings.Split(strings.TrimPrefix(setPart, "SET "), ",") {
			lhs, rhs, ok := strings.Cut(assign, "=")
			if !ok {
				return nil, fmt.Errorf("unsupported update clause %q", assign)
			}
			v, ok := values[strings.TrimSpace(rhs)]
			if !ok {
				return nil, fmt.Errorf("missing value %s", rhs)
			}
			it[resolve(strings.TrimSpace(lhs), names)] = v
		}
	} else if setPart != "" {
		return nil, fmt.Errorf("unsupported update expression %q", expr)
	}
	for _, attr := range strings.Split(removePart, ",") {
		if attr = strings.TrimSpace(attr); attr != "" {
			delete(it, resolve(attr, names))
		}
	}
	t.items[pk] = it
	return it, nil
}

func check(expr *string, it item, names map[string]string, values map[string]types.AttributeValue) (bool, error) {
	if expr == nil || strings.TrimSpace(*expr) == "" {
		return true, nil
	}
	for _, clause := range strings.Split(*expr, " AND ") {
		clause = strings.TrimSpace(clause)
		clause = strings.TrimSuffix(strings.TrimPrefix(clause, "("), ")")
		switch {
		case strings.HasPrefix(clause, "attribute_exists("):
			attr := resolve(strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_exists("), ")"), names)
			if _, ok := it[attr]; !ok {
				return false, nil
			}
		case strings.HasPrefix(clause, "attribute_not_exists("):
			attr := resolve(strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_not_exists("), ")"), names)
			if _, ok := it[attr]; ok {
				return false, nil
			}
		case strings.Contains(clause, "<>"):
			lhs, rhs, _ := strings.Cut(clause, "<>")
			cur, ok := it[resolve(strings.TrimSpace(lhs), names)]
			want, vok := values[strings.TrimSpace(rhs)]
			if !vok {
				return false, fmt.Errorf("missing value %s", rhs)
			}
			if ok && reflect.DeepEqual(cur, want) {
				return false, nil
			}
		case strings.Contains(clause, "="):
			lhs, rhs, _ := strings.Cut(clause, "=")
			cur, ok := it[resolve(strings.TrimSpace(lhs), names)]
			want, vok := values[strings.TrimSpace(rhs)]
			if !vok {
				return false, fmt.Errorf("missing value %s", rhs)
			}
			if !ok || !reflect.DeepEqual(cur, want) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported condition %q", clause)
		}
	}
	return true, nil
}

func resolve(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if n, ok := names[name]; ok {
			return n
		}
	}
	return name
}

func keyValue(it item, key string) (string, error) {
	v, ok := it[key].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("missing string key attribute %q", key)
	}
	return v.Value, nil
}

func sortedPKs(t *table) []string {
	pks := make([]string, 0, len(t.items))
	for pk := range t.items {
		pks = append(pks, pk)
	}
	sort.Strings(pks)
	return pks
}

func copyItem(it item) item {
	if it == nil {
		return nil
	}
	out := make(item, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string { return &s }
