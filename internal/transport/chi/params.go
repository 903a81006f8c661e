package chi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/tsalagi-lab/sequoyah/internal/domain/search/request"
)

// bindSearchRequest maps the query string onto the filter request.
// Unknown sort values default to relevance; unparsable booleans and
// integers are client errors.
func bindSearchRequest(query url.Values, defaultLimit, maxLimit int) (*request.Request, error) {
	req := &request.Request{
		Query:  query.Get("q"),
		Sort:   request.ParseSort(query.Get("sort")),
		Limit:  defaultLimit,
		Offset: 0,
	}

	if err := bindInt(query, "limit", &req.Limit); err != nil {
		return nil, err
	}
	if err := bindInt(query, "offset", &req.Offset); err != nil {
		return nil, err
	}
	if err := bindBool(query, "use_lemma", &req.UseLemma); err != nil {
		return nil, err
	}
	if err := bindBool(query, "untagged_only", &req.UntaggedOnly); err != nil {
		return nil, err
	}
	if err := bindBoolPtr(query, "is_command", &req.IsCommand); err != nil {
		return nil, err
	}
	if err := bindBoolPtr(query, "is_hypothetical", &req.IsHypothetical); err != nil {
		return nil, err
	}
	if err := bindBoolPtr(query, "is_time_clause", &req.IsTimeClause); err != nil {
		return nil, err
	}

	req.TagFilter = query.Get("tag")
	if values, ok := query["subclause_types"]; ok {
		req.SubclauseTypes = values
	}

	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	return req, nil
}

func bindInt(query url.Values, name string, dst *int) error {
	if !query.Has(name) {
		return nil
	}
	if err := runtime.BindQueryParameter("form", true, false, name, query, dst); err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	return nil
}

func bindBool(query url.Values, name string, dst *bool) error {
	if !query.Has(name) {
		return nil
	}
	if err := runtime.BindQueryParameter("form", true, false, name, query, dst); err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	return nil
}

// bindBoolPtr binds a tri-state boolean: absent means "dimension not
// filtered", never false.
func bindBoolPtr(query url.Values, name string, dst **bool) error {
	if !query.Has(name) {
		return nil
	}
	var v bool
	if err := runtime.BindQueryParameter("form", true, false, name, query, &v); err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	*dst = &v
	return nil
}
