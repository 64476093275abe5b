package typecheck

import (
	"fmt"
	"strings"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
	"github.com/nova-lang/nova/internal/syntax"
)

// emptyDefMap stands in for a file's own DefMap when resolving a type
// name in the context of some other (possibly cross-file) declaring
// type: resolution still needs a non-nil *hir.DefMap argument, but step
// 2 of ResolveSimpleTypeName's order (types declared in the current
// file) isn't meaningful once "current file" no longer means the file
// being checked.
var emptyDefMap = &hir.DefMap{}

// bodyCheck holds the per-file context a method body walk needs: the
// same tree/fileDefs/imports CheckFile already resolved headers with,
// plus the diagnostic sink and unresolved-type dedup table it shares
// with those header-level checks.
type bodyCheck struct {
	checker  *Checker
	tree     *hir.ItemTree
	fileDefs *hir.DefMap
	imports  []hir.Import
	reported map[string]bool
	diags    *[]Diagnostic
}

// methodCtx is the method a body walk is currently inside: its owning
// type (for `this`/implicit-receiver calls and field lookup) and its
// declared return type (for return-statement checking).
type methodCtx struct {
	owner      *hir.TypeDef
	method     hir.MethodDef
	returnType Type
}

func (b *bodyCheck) emit(code string, where corepkg.TextRange, msg string) {
	*b.diags = append(*b.diags, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  msg,
		File:     b.tree.File,
		Range:    where,
	})
}

// resolveType resolves a declaration-site type-ref string (a local
// variable's declared type, a cast or instanceof target, a catch
// clause's caught type, an object creation's created type) against this
// file's own imports and package, the same order header types use,
// emitting unresolved-type at most once per distinct text.
func (b *bodyCheck) resolveType(text string, where corepkg.TextRange) Type {
	return resolveTypeText(b.checker, b.fileDefs, b.tree.Package, b.imports, b.reported, b.diags, b.tree.File, text, where)
}

// resolveTypeText turns a type-ref text into a checker Type, handling
// array suffixes and primitives itself and delegating everything else
// to the resolver. Shared by bodyCheck.resolveType (the file being
// checked's own context) and resolveTypeTextInPackage (another type's
// declaring package, used for cross-file method/field signatures).
func resolveTypeText(c *Checker, fileDefs *hir.DefMap, pkg corepkg.PackageName, imports []hir.Import, reported map[string]bool, diags *[]Diagnostic, file corepkg.FileId, text string, where corepkg.TextRange) Type {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || text == "void" {
		return VoidType()
	}
	arrayDepth := 0
	for strings.HasSuffix(text, "[]") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "[]"))
		arrayDepth++
	}
	var base Type
	if prim, ok := primitiveKindFor(text); ok {
		base = PrimitiveType(prim)
	} else if resolved, ok := c.resolver.ResolveSimpleTypeName(fileDefs, pkg, imports, text); ok {
		base = ClassType(resolved)
	} else {
		if reported != nil && diags != nil && !reported[text] {
			reported[text] = true
			*diags = append(*diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeUnresolvedType,
				Message:  fmt.Sprintf("cannot resolve type %q", text),
				File:     file,
				Range:    where,
			})
		}
		base = UnknownType()
	}
	for i := 0; i < arrayDepth; i++ {
		base = ArrayType(base)
	}
	return base
}

// resolveTypeTextInPackage resolves a member signature's type-ref text
// (a cross-file method's param/return type) in the context of the
// declaring type's own package rather than the file under check's. It
// doesn't have that file's own import list available, so it falls back
// to same-package/workspace and java.lang resolution only — a
// signature that relies on an explicit single-type import the declaring
// file alone has is reported unresolved rather than followed.
func (c *Checker) resolveTypeTextInPackage(pkg corepkg.PackageName, text string) Type {
	return resolveTypeText(c, emptyDefMap, pkg, nil, nil, nil, 0, text, corepkg.TextRange{})
}

func primitiveKindFor(text string) (PrimitiveKind, bool) {
	switch text {
	case "boolean":
		return Boolean, true
	case "byte":
		return Byte, true
	case "short":
		return Short, true
	case "char":
		return Char, true
	case "int":
		return Int, true
	case "long":
		return Long, true
	case "float":
		return Float, true
	case "double":
		return Double, true
	default:
		return 0, false
	}
}

func declaredTypeText(ref *syntax.Red) string {
	if ref == nil {
		return ""
	}
	return strings.Join(strings.Fields(ref.Text()), " ")
}

func nonTokenChildren(n *syntax.Red) []*syntax.Red {
	var out []*syntax.Red
	for _, c := range n.Children() {
		if !c.IsToken() {
			out = append(out, c)
		}
	}
	return out
}

func firstChildNode(n *syntax.Red) *syntax.Red {
	cs := nonTokenChildren(n)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

func lastChildNode(n *syntax.Red) *syntax.Red {
	cs := nonTokenChildren(n)
	if len(cs) == 0 {
		return nil
	}
	return cs[len(cs)-1]
}

// identChildText returns a node's direct TokIdent token text: a method
// call or field access's member name, which — unlike its qualifier or
// argument list — is always a direct token child, never a sub-node.
func identChildText(n *syntax.Red) string {
	for _, c := range n.Children() {
		if c.IsToken() && c.Kind() == syntax.TokIdent {
			return c.TokenText()
		}
	}
	return ""
}

func variableDeclaratorParts(d *syntax.Red) (string, *syntax.Red) {
	name := ""
	var init *syntax.Red
	for _, c := range d.Children() {
		if c.IsToken() {
			if name == "" && c.Kind() == syntax.TokIdent {
				name = c.TokenText()
			}
			continue
		}
		init = c
	}
	return name, init
}

func binaryOpToken(expr *syntax.Red) syntax.SyntaxKind {
	for _, c := range expr.Children() {
		if c.IsToken() {
			return c.Kind()
		}
	}
	return syntax.TokError
}

// lookupTypeDef finds a binary name's TypeDef, preferring the file
// under check's own DefMap (always available regardless of workspace
// registration order) before falling back to the cross-file workspace
// index.
func (b *bodyCheck) lookupTypeDef(name corepkg.TypeName) *hir.TypeDef {
	if td, ok := b.fileDefs.Lookup(name); ok {
		return td
	}
	if binding, ok := b.checker.resolver.Workspace().Lookup(name); ok {
		return binding.Def
	}
	return nil
}

// checkMethodBody walks one method's parsed block, typing every local
// variable declaration, if/while condition, return statement, catch
// clause, and call expression it contains against its own type's
// fields and the workspace's resolved cross-file signatures. A method
// with no Body (abstract, interface, native) has nothing to walk.
func (b *bodyCheck) checkMethodBody(td *hir.TypeDef, m hir.MethodDef) {
	if m.Body == nil {
		return
	}
	typeScope := NewScope(ScopeType, nil)
	for _, f := range td.Fields {
		typeScope.Declare(Symbol{Name: f.Name, Kind: SymField, Type: b.resolveType(f.DeclaredType, f.Range)})
	}
	methodScope := NewScope(ScopeMethod, typeScope)
	for i, pt := range m.ParamTypes {
		var name corepkg.Name
		if i < len(m.ParamNames) {
			name = corepkg.Name(m.ParamNames[i])
		}
		methodScope.Declare(Symbol{Name: name, Kind: SymParameter, Type: b.resolveType(pt, m.Range)})
	}
	returnType := VoidType()
	if m.ReturnType != "" {
		returnType = b.resolveType(m.ReturnType, m.Range)
	}
	ctx := &methodCtx{owner: td, method: m, returnType: returnType}
	b.checkBlock(m.Body, NewScope(ScopeBlock, methodScope), ctx)
}

func (b *bodyCheck) checkBlock(block *syntax.Red, scope *Scope, ctx *methodCtx) {
	for _, c := range block.Children() {
		if c.IsToken() {
			continue
		}
		b.checkStatement(c, scope, ctx)
	}
}

func (b *bodyCheck) checkStatement(stmt *syntax.Red, scope *Scope, ctx *methodCtx) {
	switch stmt.Kind() {
	case syntax.NodeLocalVariableDeclaration:
		b.checkLocalVarDecl(stmt, scope, ctx)
	case syntax.NodeBlock:
		b.checkBlock(stmt, NewScope(ScopeBlock, scope), ctx)
	case syntax.NodeIfStatement, syntax.NodeWhileStatement:
		b.checkConditional(stmt, scope, ctx)
	case syntax.NodeReturnStatement:
		b.checkReturn(stmt, scope, ctx)
	case syntax.NodeThrowStatement:
		if expr := firstChildNode(stmt); expr != nil {
			b.evalExpr(expr, scope, ctx)
		}
	case syntax.NodeTryStatement:
		b.checkTry(stmt, scope, ctx)
	case syntax.NodeExpressionStatement:
		if expr := firstChildNode(stmt); expr != nil {
			b.evalExpr(expr, scope, ctx)
		}
	}
}

func (b *bodyCheck) checkLocalVarDecl(decl *syntax.Red, scope *Scope, ctx *methodCtx) {
	typeRef, _ := decl.FirstChildOfKind(syntax.NodeTypeRef)
	declaredText := declaredTypeText(typeRef)
	isVar := declaredText == "var"
	for _, d := range decl.ChildrenOfKind(syntax.NodeVariableDeclarator) {
		name, initExpr := variableDeclaratorParts(d)
		var initType Type
		hasInit := initExpr != nil
		if hasInit {
			initType = b.evalExpr(initExpr, scope, ctx)
		}
		var declType Type
		if isVar {
			declType = initType
		} else {
			declType = b.resolveType(declaredText, decl.Range())
		}
		if hasInit && !isVar && !declType.IsUnknown() && !initType.IsUnknown() {
			if AssignmentConversion(b.checker.store, initType, declType) == nil {
				b.emit(CodeTypeMismatch, decl.Range(),
					fmt.Sprintf("cannot assign %s to variable of type %s", initType, declType))
			}
		}
		if name != "" {
			scope.Declare(Symbol{Name: corepkg.Name(name), Kind: SymVariable, Type: declType})
		}
	}
}

// checkConditional handles if/while, whose children are the condition
// expression followed by one (while) or two (if, the optional else)
// statement children.
func (b *bodyCheck) checkConditional(stmt *syntax.Red, scope *Scope, ctx *methodCtx) {
	children := nonTokenChildren(stmt)
	if len(children) == 0 {
		return
	}
	cond := children[0]
	condType := b.evalExpr(cond, scope, ctx)
	if !condType.IsUnknown() && !(condType.Tag == TagPrimitive && condType.Primitive == Boolean) {
		b.emit(CodeConditionNotBool, cond.Range(), fmt.Sprintf("condition of type %s must be boolean", condType))
	}
	for _, s := range children[1:] {
		b.checkStatement(s, scope, ctx)
	}
}

func (b *bodyCheck) checkReturn(stmt *syntax.Red, scope *Scope, ctx *methodCtx) {
	expr := firstChildNode(stmt)
	if expr == nil {
		return
	}
	exprType := b.evalExpr(expr, scope, ctx)
	if ctx.returnType.Tag == TagVoid || exprType.IsUnknown() || ctx.returnType.IsUnknown() {
		return
	}
	if AssignmentConversion(b.checker.store, exprType, ctx.returnType) == nil {
		b.emit(CodeReturnMismatch, stmt.Range(),
			fmt.Sprintf("cannot return %s from a method declared to return %s", exprType, ctx.returnType))
	}
}

func (b *bodyCheck) checkTry(stmt *syntax.Red, scope *Scope, ctx *methodCtx) {
	for _, c := range stmt.Children() {
		switch c.Kind() {
		case syntax.NodeBlock:
			b.checkBlock(c, NewScope(ScopeBlock, scope), ctx)
		case syntax.NodeCatchClause:
			b.checkCatchClause(c, scope, ctx)
		case syntax.NodeFinallyStatement:
			if blk, ok := c.FirstChildOfKind(syntax.NodeBlock); ok {
				b.checkBlock(blk, NewScope(ScopeBlock, scope), ctx)
			}
		}
	}
}

// checkCatchClause validates every caught type in a (possibly
// multi-catch) clause against the Throwable hierarchy via
// CatchClauseChecker, then checks the handler block with the caught
// parameter declared as the first caught type.
func (b *bodyCheck) checkCatchClause(clause *syntax.Red, scope *Scope, ctx *methodCtx) {
	typeRefs := clause.ChildrenOfKind(syntax.NodeTypeRef)
	paramName := identChildText(clause)
	var firstCaught Type
	for i, ref := range typeRefs {
		caught := b.resolveType(declaredTypeText(ref), ref.Range())
		if caught.IsUnknown() {
			continue
		}
		cc := NewCatchClauseChecker()
		if !cc.Check(b.checker.store, caught) {
			b.emit(CodeInvalidCatchType, ref.Range(),
				fmt.Sprintf("%s is not a subtype of Throwable", caught))
		}
		if i == 0 {
			firstCaught = caught
		}
	}
	catchScope := NewScope(ScopeBlock, scope)
	if paramName != "" {
		catchScope.Declare(Symbol{Name: corepkg.Name(paramName), Kind: SymVariable, Type: firstCaught})
	}
	if blk, ok := clause.FirstChildOfKind(syntax.NodeBlock); ok {
		b.checkBlock(blk, catchScope, ctx)
	}
}

// evalExpr types one expression node, recursing into its operands (so
// a nested method call or cast inside it is still checked) and
// returning its result type, or Unknown if it can't be determined.
func (b *bodyCheck) evalExpr(expr *syntax.Red, scope *Scope, ctx *methodCtx) Type {
	switch expr.Kind() {
	case syntax.NodeLiteralExpr:
		toks := expr.SignificantTokens()
		if len(toks) == 0 {
			return UnknownType()
		}
		return literalType(b.checker.store, toks[0].Kind())
	case syntax.NodeThisExpr:
		return ClassType(ctx.owner.BinaryName)
	case syntax.NodeSuperExpr:
		if ctx.owner.Super == "" {
			return ClassType(b.checker.store.WellKnown().Object)
		}
		return b.resolveType(ctx.owner.Super, expr.Range())
	case syntax.NodeParenExpr:
		if inner := firstChildNode(expr); inner != nil {
			return b.evalExpr(inner, scope, ctx)
		}
		return UnknownType()
	case syntax.NodeNameExpr:
		return b.evalNameExpr(expr, scope, ctx)
	case syntax.NodeFieldAccessExpr:
		return b.evalFieldAccess(expr, scope, ctx)
	case syntax.NodeMethodCallExpr:
		return b.evalMethodCall(expr, scope, ctx)
	case syntax.NodeObjectCreationExpr:
		return b.evalObjectCreation(expr, scope, ctx)
	case syntax.NodeArrayAccessExpr:
		children := nonTokenChildren(expr)
		if len(children) < 1 {
			return UnknownType()
		}
		arrType := b.evalExpr(children[0], scope, ctx)
		if len(children) > 1 {
			b.evalExpr(children[1], scope, ctx)
		}
		if arrType.Tag == TagArray {
			return *arrType.Elem
		}
		return UnknownType()
	case syntax.NodeAssignmentExpr:
		children := nonTokenChildren(expr)
		if len(children) != 2 {
			return UnknownType()
		}
		b.evalExpr(children[0], scope, ctx)
		return b.evalExpr(children[1], scope, ctx)
	case syntax.NodeBinaryExpr:
		return b.evalBinary(expr, scope, ctx)
	case syntax.NodeUnaryExpr, syntax.NodePostfixExpr:
		if inner := firstChildNode(expr); inner != nil {
			return b.evalExpr(inner, scope, ctx)
		}
		return UnknownType()
	case syntax.NodeCastExpr:
		ref, _ := expr.FirstChildOfKind(syntax.NodeTypeRef)
		if inner := lastChildNode(expr); inner != nil && inner.Kind() != syntax.NodeTypeRef {
			b.evalExpr(inner, scope, ctx)
		}
		return b.resolveType(declaredTypeText(ref), expr.Range())
	case syntax.NodeInstanceOfExpr:
		if inner := firstChildNode(expr); inner != nil {
			b.evalExpr(inner, scope, ctx)
		}
		return PrimitiveType(Boolean)
	case syntax.NodeConditionalExpr:
		children := nonTokenChildren(expr)
		if len(children) != 3 {
			return UnknownType()
		}
		b.evalExpr(children[0], scope, ctx)
		thenType := b.evalExpr(children[1], scope, ctx)
		b.evalExpr(children[2], scope, ctx)
		return thenType
	case syntax.NodeErrorNode:
		return UnknownType()
	default:
		return UnknownType()
	}
}

func literalType(store *TypeStore, tokKind syntax.SyntaxKind) Type {
	switch tokKind {
	case syntax.TokIntLiteral:
		return PrimitiveType(Int)
	case syntax.TokLongLiteral:
		return PrimitiveType(Long)
	case syntax.TokFloatLiteral:
		return PrimitiveType(Float)
	case syntax.TokDoubleLiteral:
		return PrimitiveType(Double)
	case syntax.TokCharLiteral:
		return PrimitiveType(Char)
	case syntax.TokStringLiteral, syntax.TokTextBlockLiteral:
		return ClassType(store.WellKnown().String)
	case syntax.TokTrue, syntax.TokFalse:
		return PrimitiveType(Boolean)
	case syntax.TokNull:
		return NullType()
	default:
		return UnknownType()
	}
}

func (b *bodyCheck) evalNameExpr(expr *syntax.Red, scope *Scope, ctx *methodCtx) Type {
	toks := expr.SignificantTokens()
	if len(toks) == 0 {
		return UnknownType()
	}
	name := corepkg.Name(toks[0].TokenText())
	sym, ok := scope.Lookup(name)
	if !ok {
		return UnknownType()
	}
	if sym.Kind == SymField && ctx.method.IsStatic {
		b.emit(CodeStaticContext, expr.Range(),
			fmt.Sprintf("non-static field %s cannot be referenced from a static context", name))
	}
	return sym.Type
}

// evalQualifier evaluates the receiver of a field access or method
// call. A bare name that resolves in scope is a variable/field/
// parameter access; a bare name that doesn't is tried as a simple type
// name instead, for a static member access through the type (e.g.
// `Utils.helper()`) — reporting isStatic so the caller can tell a
// static-context reference from an instance one.
func (b *bodyCheck) evalQualifier(node *syntax.Red, scope *Scope, ctx *methodCtx) (Type, bool) {
	if node.Kind() == syntax.NodeNameExpr {
		toks := node.SignificantTokens()
		if len(toks) > 0 {
			name := toks[0].TokenText()
			if sym, ok := scope.Lookup(corepkg.Name(name)); ok {
				return sym.Type, false
			}
			if resolved, ok := b.checker.resolver.ResolveSimpleTypeName(b.fileDefs, b.tree.Package, b.imports, name); ok {
				return ClassType(resolved), true
			}
			return UnknownType(), false
		}
	}
	return b.evalExpr(node, scope, ctx), false
}

func (b *bodyCheck) evalFieldAccess(expr *syntax.Red, scope *Scope, ctx *methodCtx) Type {
	qualifier := firstChildNode(expr)
	if qualifier == nil {
		return UnknownType()
	}
	fieldName := identChildText(expr)
	ownerType, isStatic := b.evalQualifier(qualifier, scope, ctx)
	if ownerType.Tag != TagClass {
		return UnknownType()
	}
	owner := b.lookupTypeDef(ownerType.Class)
	if owner == nil {
		return UnknownType()
	}
	for _, f := range owner.Fields {
		if string(f.Name) != fieldName {
			continue
		}
		if isStatic && !f.IsStatic {
			b.emit(CodeStaticContext, expr.Range(),
				fmt.Sprintf("non-static field %s cannot be referenced from a static context", fieldName))
		}
		return b.checker.resolveTypeTextInPackage(owner.BinaryName.Package(), f.DeclaredType)
	}
	return UnknownType()
}

func (b *bodyCheck) evalObjectCreation(expr *syntax.Red, scope *Scope, ctx *methodCtx) Type {
	ref, _ := expr.FirstChildOfKind(syntax.NodeTypeRef)
	if args, ok := expr.FirstChildOfKind(syntax.NodeArgumentList); ok {
		for _, a := range nonTokenChildren(args) {
			b.evalExpr(a, scope, ctx)
		}
	}
	return b.resolveType(declaredTypeText(ref), expr.Range())
}

// evalMethodCall resolves a call's receiver, builds the overload set
// from the owning type's declared methods (its own file's DefMap if
// it's the type being checked, the cross-file workspace index
// otherwise), and runs ResolveMethodCall's JLS overload resolution over
// it, surfacing unresolved-method, ambiguous-method, or static-context.
func (b *bodyCheck) evalMethodCall(expr *syntax.Red, scope *Scope, ctx *methodCtx) Type {
	nonTok := nonTokenChildren(expr)
	if len(nonTok) == 0 {
		return UnknownType()
	}
	argList := nonTok[len(nonTok)-1]
	var qualifier *syntax.Red
	if len(nonTok) >= 2 {
		qualifier = nonTok[0]
	}
	name := identChildText(expr)

	var argTypes []Type
	for _, a := range nonTokenChildren(argList) {
		argTypes = append(argTypes, b.evalExpr(a, scope, ctx))
	}

	var ownerType Type
	isStaticQualifier := false
	if qualifier != nil {
		ownerType, isStaticQualifier = b.evalQualifier(qualifier, scope, ctx)
	} else {
		ownerType = ClassType(ctx.owner.BinaryName)
		isStaticQualifier = ctx.method.IsStatic
	}
	if ownerType.Tag != TagClass {
		return UnknownType()
	}
	owner := b.lookupTypeDef(ownerType.Class)
	if owner == nil {
		return UnknownType()
	}

	var candidates []MethodCandidate
	for _, md := range owner.Methods {
		if string(md.Name) != name {
			continue
		}
		cand := MethodCandidate{
			Owner:      owner.BinaryName,
			Name:       md.Name,
			IsStatic:   md.IsStatic,
			ReturnType: b.checker.resolveTypeTextInPackage(owner.BinaryName.Package(), md.ReturnType),
		}
		for _, pt := range md.ParamTypes {
			cand.ParamTypes = append(cand.ParamTypes, b.checker.resolveTypeTextInPackage(owner.BinaryName.Package(), pt))
		}
		candidates = append(candidates, cand)
	}
	if len(candidates) == 0 {
		b.emit(CodeUnresolvedMethod, expr.Range(), fmt.Sprintf("cannot resolve method %s", name))
		return UnknownType()
	}

	if isStaticQualifier {
		var staticCandidates []MethodCandidate
		for _, cand := range candidates {
			if cand.IsStatic {
				staticCandidates = append(staticCandidates, cand)
			}
		}
		if len(staticCandidates) == 0 {
			b.emit(CodeStaticContext, expr.Range(),
				fmt.Sprintf("non-static method %s cannot be referenced from a static context", name))
			return UnknownType()
		}
		candidates = staticCandidates
	}

	match, code := ResolveMethodCall(b.checker.store, candidates, argTypes)
	if code != "" {
		b.emit(code, expr.Range(), fmt.Sprintf("cannot resolve method %s", name))
		return UnknownType()
	}
	return match.Candidate.ReturnType
}

func (b *bodyCheck) evalBinary(expr *syntax.Red, scope *Scope, ctx *methodCtx) Type {
	children := nonTokenChildren(expr)
	if len(children) != 2 {
		return UnknownType()
	}
	lhs := b.evalExpr(children[0], scope, ctx)
	rhs := b.evalExpr(children[1], scope, ctx)
	op := binaryOpToken(expr)
	switch op {
	case syntax.TokAndAnd, syntax.TokOrOr,
		syntax.TokEq, syntax.TokNe, syntax.TokLt, syntax.TokGt, syntax.TokLe, syntax.TokGe:
		return PrimitiveType(Boolean)
	case syntax.TokPlus:
		str := b.checker.store.WellKnown().String
		if (lhs.Tag == TagClass && lhs.Class == str) || (rhs.Tag == TagClass && rhs.Class == str) {
			return ClassType(str)
		}
	}
	if lhs.Tag == TagPrimitive && rhs.Tag == TagPrimitive {
		if p, ok := BinaryNumericPromotion(lhs.Primitive, rhs.Primitive); ok {
			return PrimitiveType(p)
		}
	}
	return UnknownType()
}
