package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "enumvalidator",
	Doc:  "checks that enum fields only use defined constants, not string literals",
	Run:  run,
}

// enumTypes are the closed string enums of the model and wizard packages.
var enumTypes = map[string]bool{
	"ContentType":     true,
	"TargetAudience":  true,
	"WritingStyle":    true,
	"Satisfaction":    true,
	"ComplianceGrade": true,
	"Tag":             true,
	"Step":            true,
	"Field":           true,
	"StoreBackend":    true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.AssignStmt:
				checkAssign(pass, n)
			case *ast.CompositeLit:
				checkCompositeLit(pass, n)
			}
			return true
		})
	}
	return nil, nil
}

func checkAssign(pass *analysis.Pass, assign *ast.AssignStmt) {
	for i, lhs := range assign.Lhs {
		if i >= len(assign.Rhs) {
			continue
		}
		sel, ok := lhs.(*ast.SelectorExpr)
		if !ok {
			continue
		}
		if isEnumType(pass.TypesInfo.TypeOf(sel)) && isStringLiteral(assign.Rhs[i]) {
			pass.Reportf(assign.Pos(),
				"enum field %s assigned string literal; use defined constant instead",
				sel.Sel.Name)
		}
	}
}

// checkCompositeLit reports struct literals such as T{Style: "casual"}.
func checkCompositeLit(pass *analysis.Pass, lit *ast.CompositeLit) {
	t := pass.TypesInfo.TypeOf(lit)
	if t == nil {
		return
	}
	if _, ok := t.Underlying().(*types.Struct); !ok {
		return
	}

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		if isEnumType(pass.TypesInfo.TypeOf(key)) && isStringLiteral(kv.Value) {
			pass.Reportf(kv.Pos(),
				"enum field %s assigned string literal; use defined constant instead",
				key.Name)
		}
	}
}

func isEnumType(t types.Type) bool {
	if named, ok := t.(*types.Named); ok {
		return enumTypes[named.Obj().Name()]
	}
	return false
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
