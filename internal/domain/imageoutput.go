package domain

import (
	"bytes"
	"encoding/json"
)

// FileResult is a single file produced by an image model.
type FileResult struct {
	URL string `json:"url"`
}

// ImageOutput models the two shapes image models return: a single file
// or an ordered list of files. At most one branch is populated.
type ImageOutput struct {
	Single *FileResult
	List   []FileResult
}

// Results flattens the union into an ordered slice.
func (o ImageOutput) Results() []FileResult {
	if o.Single != nil {
		return []FileResult{*o.Single}
	}
	return o.List
}

// UnmarshalJSON accepts a bare URL string, an object carrying a url
// field, or an array mixing both.
func (o *ImageOutput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		list := make([]FileResult, 0, len(items))
		for _, item := range items {
			result, err := decodeFileResult(item)
			if err != nil {
				return err
			}
			list = append(list, result)
		}
		o.List = list
		return nil
	}

	result, err := decodeFileResult(trimmed)
	if err != nil {
		return err
	}
	o.Single = &result
	return nil
}

func decodeFileResult(data []byte) (FileResult, error) {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		return FileResult{URL: url}, nil
	}

	var result FileResult
	if err := json.Unmarshal(data, &result); err != nil {
		return FileResult{}, err
	}
	return result, nil
}
