package parser

import (
	"github.com/example/go-subyaml/ast"
	"github.com/example/go-subyaml/errors"
)

// mergeOverride applies patch onto root in place, recording every changed
// or added path into the returned *ast.Override so the packer can later
// tell which parts of the subtree came from the override (spec.md §4.7).
// An override only ever targets a mapping: its entries are always
// key-addressed, so root itself must be a MappingNode whenever patch has
// entries to apply.
func mergeOverride(file string, root ast.Node, patch *ast.MappingNode) (*ast.Override, error) {
	ov := &ast.Override{}
	if len(patch.Entries) == 0 {
		return ov, nil
	}
	rootMap, ok := root.(*ast.MappingNode)
	if !ok {
		return nil, errors.New(errors.CannotChangeTypesInOverride, file, "override target is not a mapping")
	}
	if err := mergeOverrideMapping(file, "", rootMap, patch, ov); err != nil {
		return nil, err
	}
	return ov, nil
}

// mergeOverrideMapping walks one level of the patch, applying spec.md
// §4.7's per-kind merge rule: scalar values overwrite, sequence values
// append, mapping values recurse. A key absent from target is a pure
// addition (no original recorded); a key present whose kind disagrees
// with the patch value's kind is a hard error.
func mergeOverrideMapping(file, path string, target, patch *ast.MappingNode, ov *ast.Override) error {
	for _, e := range patch.Entries {
		childPath := ast.ChildPath(path, e.Key)
		existing := target.Get(e.Key)
		if existing == nil {
			target.Append(&ast.MappingEntry{Key: e.Key, KeySpan: e.KeySpan, KeyPresID: e.KeyPresID, Value: e.Value})
			ov.Record(childPath, nil, false)
			continue
		}
		switch patchVal := e.Value.(type) {
		case *ast.ScalarNode:
			if existing.Value.Kind() != ast.ScalarKind {
				return errors.New(errors.CannotChangeTypesInOverride, file, "cannot change types of data in override: "+childPath)
			}
			ov.Record(ast.SelfPath(childPath), existing.Value, true)
			existing.Value = patchVal
		case *ast.SequenceNode:
			exSeq, ok := existing.Value.(*ast.SequenceNode)
			if !ok {
				return errors.New(errors.CannotChangeTypesInOverride, file, "cannot change types of data in override: "+childPath)
			}
			for _, item := range patchVal.Items {
				idx := len(exSeq.Items)
				exSeq.Append(item, item.PresentationID())
				ov.Record(ast.IndexPath(childPath, idx), nil, false)
			}
		case *ast.MappingNode:
			exMap, ok := existing.Value.(*ast.MappingNode)
			if !ok {
				return errors.New(errors.CannotChangeTypesInOverride, file, "cannot change types of data in override: "+childPath)
			}
			if err := mergeOverrideMapping(file, childPath, exMap, patchVal, ov); err != nil {
				return err
			}
		}
	}
	return nil
}
