package syntax

// Parse tokenizes and parses source into a lossless green tree plus a
// (possibly empty) list of recoverable ParseErrors. Parsing never fails
// (spec.md §4.2): malformed input still yields a best-effort tree.
func Parse(source []byte) (*GreenNode, []ParseError) {
	tokens, lexIssues := Lex(source)
	p := &parser{tokens: tokens, source: source, builder: newBuilder()}
	for _, li := range lexIssues {
		p.errors = append(p.errors, ParseError{Message: li.Message, Range: li.Range})
	}
	p.parseCompilationUnit()
	root := p.builder.Finish()
	node, ok := root.(*GreenNode)
	if !ok {
		node = NewGreenNode(NodeCompilationUnit, []GreenElement{root})
	}
	return node, p.errors
}

type parser struct {
	tokens  []Token
	source  []byte
	pos     int
	builder *builder
	errors  []ParseError
}

// --- low-level token handling ---

func (p *parser) skipTrivia() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind.IsTrivia() {
		p.emit(p.tokens[p.pos])
		p.pos++
	}
}

func (p *parser) emit(t Token) {
	p.builder.Token(t.Kind, t.Text(p.source))
}

func (p *parser) cur() Token {
	p.skipTrivia()
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) bump() Token {
	t := p.cur()
	p.emit(t)
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) text(t Token) string { return t.Text(p.source) }

func (p *parser) at(kind SyntaxKind) bool { return p.cur().Kind == kind }

func (p *parser) atIdentText(s string) bool {
	c := p.cur()
	return c.Kind == TokIdent && p.text(c) == s
}

// peekSignificant looks n significant (non-trivia) tokens ahead of the
// current position without consuming anything.
func (p *parser) peekSignificant(n int) Token {
	idx := p.pos
	count := 0
	for idx < len(p.tokens) {
		if p.tokens[idx].Kind.IsTrivia() {
			idx++
			continue
		}
		if count == n {
			return p.tokens[idx]
		}
		count++
		idx++
	}
	return Token{Kind: TokEOF}
}

func (p *parser) expect(kind SyntaxKind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.errorHere("expected token")
	return false
}

func (p *parser) expectSemi() {
	if p.at(TokSemicolon) {
		p.bump()
		return
	}
	p.errorHere("expected ';'")
	p.recoverToStatementBoundary()
}

func (p *parser) errorHere(msg string) {
	t := p.cur()
	p.errors = append(p.errors, ParseError{Message: msg, Range: t.Range})
}

// recoverToStatementBoundary skips tokens until the next ';', the next
// balancing '}', or a token that starts a new declaration, matching
// spec.md §4.2's recovery discipline.
func (p *parser) recoverToStatementBoundary() {
	depth := 0
	for {
		t := p.cur()
		switch t.Kind {
		case TokEOF:
			return
		case TokLBrace:
			depth++
			p.bump()
			continue
		case TokRBrace:
			if depth == 0 {
				return
			}
			depth--
			p.bump()
			continue
		case TokSemicolon:
			p.bump()
			return
		}
		if depth == 0 && isDeclStartKeyword(t.Kind) {
			return
		}
		p.bump()
	}
}

func isDeclStartKeyword(k SyntaxKind) bool {
	switch k {
	case TokClass, TokInterface, TokEnum, TokImport, TokPackage, TokPublic, TokPrivate,
		TokProtected, TokStatic, TokFinal, TokAbstract, TokAt:
		return true
	default:
		return false
	}
}

// --- compilation unit ---

func (p *parser) parseCompilationUnit() {
	p.builder.StartNode()

	if p.isModuleDeclarationStart() {
		p.parseModuleDeclaration()
		if !p.at(TokEOF) {
			p.errorHere("expected end of file after the module declaration")
			for !p.at(TokEOF) {
				p.bump()
			}
		}
	} else {
		if p.at(TokPackage) {
			p.parsePackageDeclaration()
		}
		for p.at(TokImport) {
			p.parseImport()
		}
		for !p.at(TokEOF) {
			if p.at(TokSemicolon) {
				p.bump()
				continue
			}
			p.parseTypeDeclaration()
		}
	}

	p.builder.FinishNode(NodeCompilationUnit)
}

func (p *parser) isModuleDeclarationStart() bool {
	if p.atIdentText("open") && p.peekSignificant(1).Kind == TokIdent {
		return p.text(p.peekSignificant(1)) == "module"
	}
	return p.atIdentText("module") && p.peekSignificant(1).Kind == TokIdent
}

func (p *parser) parsePackageDeclaration() {
	p.builder.StartNode()
	p.bump() // 'package'
	p.parseQualifiedNameRef()
	p.expectSemi()
	p.builder.FinishNode(NodePackageDeclaration)
}

func (p *parser) parseQualifiedNameRef() {
	p.builder.StartNode()
	if p.at(TokIdent) {
		p.bump()
	} else {
		p.errorHere("expected identifier")
	}
	for p.at(TokDot) {
		p.bump()
		if p.at(TokIdent) {
			p.bump()
		} else {
			break
		}
	}
	p.builder.FinishNode(NodeTypeRef)
}

func (p *parser) parseImport() {
	p.builder.StartNode()
	p.bump() // 'import'
	if p.at(TokStatic) {
		p.bump()
	}
	p.builder.StartNode()
	if p.at(TokIdent) {
		p.bump()
	}
	for p.at(TokDot) {
		p.bump()
		if p.at(TokStar) {
			p.bump()
			break
		}
		if p.at(TokIdent) {
			p.bump()
		} else {
			break
		}
	}
	p.builder.FinishNode(NodeTypeRef)
	p.expectSemi()
	p.builder.FinishNode(NodeImportDeclaration)
}

// --- modifiers & annotations ---

func isModifierKeyword(k SyntaxKind) bool {
	switch k {
	case TokPublic, TokPrivate, TokProtected, TokStatic, TokFinal, TokAbstract,
		TokNative, TokSynchronized, TokTransient, TokVolatile, TokStrictfp, TokDefault:
		return true
	default:
		return false
	}
}

func (p *parser) parseModifiers() {
	p.builder.StartNode()
	for {
		t := p.cur()
		switch {
		case t.Kind == TokAt && !(p.peekSignificant(1).Kind == TokInterface):
			p.parseAnnotation()
			continue
		case isModifierKeyword(t.Kind):
			p.builder.StartNode()
			p.bump()
			p.builder.FinishNode(NodeModifier)
			continue
		case t.Kind == TokIdent && p.text(t) == "sealed":
			p.builder.StartNode()
			p.bump()
			p.builder.FinishNode(NodeModifier)
			continue
		}
		break
	}
	p.builder.FinishNode(NodeModifierList)
}

func (p *parser) parseAnnotation() {
	p.bump() // '@'
	if p.at(TokIdent) {
		p.bump()
	}
	for p.at(TokDot) {
		p.bump()
		if p.at(TokIdent) {
			p.bump()
		}
	}
	if p.at(TokLParen) {
		p.skipBalanced(TokLParen, TokRParen)
	}
}

func (p *parser) skipBalanced(open, closeKind SyntaxKind) {
	if !p.at(open) {
		return
	}
	depth := 0
	for {
		t := p.cur()
		if t.Kind == TokEOF {
			return
		}
		p.bump()
		switch t.Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// --- type declarations ---

func (p *parser) parseTypeDeclaration() {
	p.builder.StartNode()
	p.parseModifiers()

	var kind SyntaxKind
	switch {
	case p.at(TokClass):
		kind = NodeClassDeclaration
		p.parseClassLikeRest()
	case p.at(TokInterface):
		kind = NodeInterfaceDeclaration
		p.parseClassLikeRest()
	case p.at(TokEnum):
		kind = NodeEnumDeclaration
		p.parseEnumRest()
	case p.atIdentText("record"):
		kind = NodeRecordDeclaration
		p.parseRecordRest()
	case p.at(TokAt) && p.peekSignificant(1).Kind == TokInterface:
		kind = NodeAnnotationDeclaration
		p.parseAnnotationTypeRest()
	default:
		kind = NodeErrorNode
		p.errorHere("expected a type declaration (class, interface, enum, record, or @interface)")
		p.recoverToStatementBoundary()
	}
	p.builder.FinishNode(kind)
}

func (p *parser) parseClassLikeRest() {
	p.bump() // 'class' or 'interface'
	nameTok := p.cur()
	p.expect(TokIdent)
	p.skipTypeParamsOrArgsIfPresent()
	if p.at(TokExtends) {
		p.bump()
		p.parseTypeRefList()
	}
	if p.at(TokImplements) {
		p.bump()
		p.parseTypeRefList()
	}
	if p.atIdentText("permits") {
		p.bump()
		p.parseTypeRefList()
	}
	p.parseClassBody(p.text(nameTok))
}

func (p *parser) parseEnumRest() {
	p.bump() // 'enum'
	nameTok := p.cur()
	p.expect(TokIdent)
	if p.at(TokImplements) {
		p.bump()
		p.parseTypeRefList()
	}
	if !p.expect(TokLBrace) {
		return
	}
	for p.at(TokIdent) || p.at(TokAt) {
		p.parseEnumConstant()
		if p.at(TokComma) {
			p.bump()
			continue
		}
		break
	}
	if p.at(TokSemicolon) {
		p.bump()
		for !p.at(TokRBrace) && !p.at(TokEOF) {
			p.parseMember(p.text(nameTok))
		}
	}
	p.expect(TokRBrace)
}

func (p *parser) parseEnumConstant() {
	p.builder.StartNode()
	for p.at(TokAt) {
		p.parseAnnotation()
	}
	p.expect(TokIdent)
	if p.at(TokLParen) {
		p.skipBalanced(TokLParen, TokRParen)
	}
	if p.at(TokLBrace) {
		p.skipBalanced(TokLBrace, TokRBrace)
	}
	p.builder.FinishNode(NodeEnumConstant)
}

func (p *parser) parseRecordRest() {
	p.bump() // 'record'
	nameTok := p.cur()
	p.expect(TokIdent)
	p.skipTypeParamsOrArgsIfPresent()
	p.builder.StartNode()
	p.expect(TokLParen)
	for !p.at(TokRParen) && !p.at(TokEOF) {
		p.parseParameter()
		if p.at(TokComma) {
			p.bump()
			continue
		}
		break
	}
	p.expect(TokRParen)
	p.builder.FinishNode(NodeParameterList)
	if p.at(TokImplements) {
		p.bump()
		p.parseTypeRefList()
	}
	p.parseClassBody(p.text(nameTok))
}

func (p *parser) parseAnnotationTypeRest() {
	p.bump() // '@'
	p.bump() // 'interface'
	p.expect(TokIdent)
	p.parseClassBody("")
}

func (p *parser) skipTypeParamsOrArgsIfPresent() {
	if !p.at(TokLt) {
		return
	}
	depth := 0
	for {
		t := p.cur()
		switch t.Kind {
		case TokLt:
			p.bump()
			depth++
		case TokGt:
			p.bump()
			depth--
		case TokShr:
			p.bump()
			depth -= 2
		case TokUshr:
			p.bump()
			depth -= 3
		case TokEOF, TokSemicolon, TokLBrace:
			return
		default:
			p.bump()
		}
		if depth <= 0 {
			return
		}
	}
}

func (p *parser) parseTypeRefList() {
	p.parseTypeRef()
	for p.at(TokComma) {
		p.bump()
		p.parseTypeRef()
	}
}

func (p *parser) parseTypeRef() {
	p.builder.StartNode()
	if p.at(TokQuestion) {
		p.bump()
		if p.at(TokExtends) || p.at(TokSuper) {
			p.bump()
			p.parseTypeRef()
		}
		p.builder.FinishNode(NodeTypeRef)
		return
	}
	if isPrimitiveTypeKeyword(p.cur().Kind) || p.at(TokVoid) {
		p.bump()
	} else if p.at(TokIdent) {
		p.bump()
		for p.at(TokDot) {
			p.bump()
			if p.at(TokIdent) {
				p.bump()
			} else {
				break
			}
		}
		p.skipTypeParamsOrArgsIfPresent()
	} else {
		p.errorHere("expected a type")
	}
	for p.at(TokLBracket) {
		p.bump()
		if p.at(TokRBracket) {
			p.bump()
		}
	}
	if p.at(TokEllipsis) {
		p.bump()
	}
	p.builder.FinishNode(NodeTypeRef)
}

func isPrimitiveTypeKeyword(k SyntaxKind) bool {
	switch k {
	case TokBoolean, TokByte, TokShort, TokInt, TokLong, TokChar, TokFloat, TokDouble:
		return true
	default:
		return false
	}
}

func (p *parser) parseClassBody(enclosingName string) {
	if !p.expect(TokLBrace) {
		return
	}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		if p.at(TokSemicolon) {
			p.bump()
			continue
		}
		p.parseMember(enclosingName)
	}
	p.expect(TokRBrace)
}

// --- members ---

func (p *parser) parseMember(enclosingName string) {
	p.builder.StartNode()
	p.parseModifiers()

	var kind SyntaxKind
	switch {
	case p.at(TokLBrace):
		kind = NodeBlock
		p.parseBlockBody()
	case p.at(TokClass), p.at(TokInterface), p.at(TokEnum),
		p.atIdentText("record"),
		p.at(TokAt) && p.peekSignificant(1).Kind == TokInterface:
		kind = p.parseNestedTypeDispatch()
	case p.at(TokIdent) && p.text(p.cur()) == enclosingName && p.peekSignificant(1).Kind == TokLParen:
		kind = NodeConstructorDeclaration
		p.parseConstructorRest()
	case p.at(TokLt): // generic method: <T> T foo(...)
		p.skipTypeParamsOrArgsIfPresent()
		kind = p.parseFieldOrMethodRest()
	default:
		kind = p.parseFieldOrMethodRest()
	}
	p.builder.FinishNode(kind)
}

func (p *parser) parseNestedTypeDispatch() SyntaxKind {
	switch {
	case p.at(TokClass), p.at(TokInterface):
		k := NodeClassDeclaration
		if p.at(TokInterface) {
			k = NodeInterfaceDeclaration
		}
		p.parseClassLikeRest()
		return k
	case p.at(TokEnum):
		p.parseEnumRest()
		return NodeEnumDeclaration
	case p.atIdentText("record"):
		p.parseRecordRest()
		return NodeRecordDeclaration
	default:
		p.parseAnnotationTypeRest()
		return NodeAnnotationDeclaration
	}
}

func (p *parser) parseConstructorRest() {
	p.bump() // name
	p.parseParameterList()
	if p.at(TokThrows) {
		p.bump()
		p.parseTypeRefList()
	}
	if p.at(TokLBrace) {
		p.parseBlock()
	} else {
		p.expectSemi()
	}
}

// parseFieldOrMethodRest parses `<type> name (...)` as a method, or
// `<type> name [= init][, name2 ...] ;` as a field, returning the kind.
func (p *parser) parseFieldOrMethodRest() SyntaxKind {
	p.parseTypeRef()
	if !p.at(TokIdent) {
		p.errorHere("expected a member name")
		p.recoverToStatementBoundary()
		return NodeErrorNode
	}
	p.bump() // name

	if p.at(TokLParen) {
		p.parseParameterList()
		for p.at(TokLBracket) { // legacy C-style array return, e.g. `int foo()[]`
			p.bump()
			if p.at(TokRBracket) {
				p.bump()
			}
		}
		if p.at(TokThrows) {
			p.bump()
			p.parseTypeRefList()
		}
		if p.at(TokDefault) { // annotation element default value
			p.bump()
			p.skipInitializerExpression()
		}
		if p.at(TokLBrace) {
			p.parseBlock()
		} else {
			p.expectSemi()
		}
		return NodeMethodDeclaration
	}

	// field: one or more declarators
	p.parseFieldDeclaratorRest()
	for p.at(TokComma) {
		p.bump()
		if p.at(TokIdent) {
			p.bump()
		}
		p.parseFieldDeclaratorRest()
	}
	p.expectSemi()
	return NodeFieldDeclaration
}

func (p *parser) parseFieldDeclaratorRest() {
	for p.at(TokLBracket) {
		p.bump()
		if p.at(TokRBracket) {
			p.bump()
		}
	}
	if p.at(TokAssign) {
		p.bump()
		p.skipInitializerExpression()
	}
}

// skipInitializerExpression consumes tokens up to (but not including) the
// next top-level ',' or ';', tracking bracket/paren/brace nesting so
// commas inside array initializers or calls do not end the declarator.
// At the top level it also stops where an identifier or primitive type
// keyword directly follows an identifier or literal (other than an
// instanceof pattern's binding name): that is the start of the next
// declaration, and the ';' ending this one is missing.
func (p *parser) skipInitializerExpression() {
	depth := 0
	prev := TokEOF
	sawInstanceof := false
	for {
		t := p.cur()
		switch t.Kind {
		case TokEOF:
			return
		case TokLParen, TokLBrace, TokLBracket:
			depth++
		case TokRParen, TokRBrace, TokRBracket:
			if depth == 0 {
				return
			}
			depth--
		case TokComma, TokSemicolon:
			if depth == 0 {
				return
			}
		}
		if depth == 0 && (t.Kind == TokIdent || isPrimitiveTypeKeyword(t.Kind)) {
			switch prev {
			case TokIdent, TokIntLiteral, TokLongLiteral, TokFloatLiteral, TokDoubleLiteral,
				TokCharLiteral, TokStringLiteral, TokTextBlockLiteral:
				if !sawInstanceof {
					return
				}
				sawInstanceof = false
			}
		}
		if depth == 0 && t.Kind == TokInstanceof {
			sawInstanceof = true
		}
		prev = t.Kind
		p.bump()
	}
}

func (p *parser) parseParameterList() {
	p.builder.StartNode()
	p.expect(TokLParen)
	for !p.at(TokRParen) && !p.at(TokEOF) {
		p.parseParameter()
		if p.at(TokComma) {
			p.bump()
			continue
		}
		break
	}
	p.expect(TokRParen)
	p.builder.FinishNode(NodeParameterList)
}

func (p *parser) parseParameter() {
	p.builder.StartNode()
	p.parseModifiers() // annotations / 'final'
	p.parseTypeRef()
	if p.at(TokEllipsis) {
		p.bump()
	}
	if p.at(TokIdent) {
		p.bump()
	}
	for p.at(TokLBracket) {
		p.bump()
		if p.at(TokRBracket) {
			p.bump()
		}
	}
	p.builder.FinishNode(NodeParameter)
}

// --- statements ---

// parseBlockBody parses `{ stmt* }` without opening its own node, for
// call sites that already have an enclosing node open (a member's
// initializer block, whose outer NodeBlock is opened by parseMember).
func (p *parser) parseBlockBody() {
	if !p.expect(TokLBrace) {
		return
	}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		p.parseStatement()
	}
	p.expect(TokRBrace)
}

// parseBlock parses a `{ stmt* }` block as its own NodeBlock, for use
// wherever a nested statement position needs one (if/while bodies, try/
// catch/finally bodies, a method or constructor body).
func (p *parser) parseBlock() {
	p.builder.StartNode()
	p.parseBlockBody()
	p.builder.FinishNode(NodeBlock)
}

func (p *parser) parseStatement() {
	switch {
	case p.at(TokLBrace):
		p.parseBlock()
	case p.looksLikeLocalVarDecl():
		p.parseLocalVariableDeclaration()
	case p.at(TokIf):
		p.parseIfStatement()
	case p.at(TokWhile):
		p.parseWhileStatement()
	case p.at(TokReturn):
		p.parseReturnStatement()
	case p.at(TokThrow):
		p.parseThrowStatement()
	case p.at(TokTry):
		p.parseTryStatement()
	case p.at(TokSemicolon):
		p.builder.StartNode()
		p.bump()
		p.builder.FinishNode(NodeExpressionStatement)
	case p.at(TokIdent) && p.peekSignificant(1).Kind == TokColon:
		// labeled statement; the label and its target aren't modeled
		// structurally, only the opaque consumer's brace/paren tracking
		// is needed to find where it ends.
		p.parseOpaqueStatement()
	case isStatementExprStart(p.cur().Kind):
		p.builder.StartNode()
		p.parseExpression()
		p.expectSemi()
		p.builder.FinishNode(NodeExpressionStatement)
	default:
		p.parseOpaqueStatement()
	}
}

func isStatementExprStart(k SyntaxKind) bool {
	switch k {
	case TokIdent, TokThis, TokSuper, TokNew, TokLParen,
		TokPlusPlus, TokMinusMinus, TokBang, TokTilde, TokPlus, TokMinus:
		return true
	default:
		return false
	}
}

// parseOpaqueStatement consumes one statement this minimal grammar
// doesn't model structurally — for/do/switch/synchronized/assert/
// break/continue/yield and labeled statements — as a single node,
// tracking brace/paren/bracket depth so a nested header or body never
// terminates it early. A `do` body's trailing `while (...) ;` needs its
// own peek since the loop's own depth returns to zero right after the
// body's closing brace, before the condition is consumed.
func (p *parser) parseOpaqueStatement() {
	p.builder.StartNode()
	isDo := p.at(TokDo)
	depth := 0
	for {
		t := p.cur()
		switch t.Kind {
		case TokEOF:
			p.builder.FinishNode(NodeOpaqueStatement)
			return
		case TokLBrace, TokLParen, TokLBracket:
			depth++
		case TokRBrace, TokRParen, TokRBracket:
			depth--
		}
		p.bump()
		if depth <= 0 {
			if t.Kind == TokSemicolon {
				break
			}
			if t.Kind == TokRBrace {
				if isDo && p.at(TokWhile) {
					p.bump()
					if p.at(TokLParen) {
						p.skipBalanced(TokLParen, TokRParen)
					}
					p.expectSemi()
				}
				break
			}
		}
	}
	p.builder.FinishNode(NodeOpaqueStatement)
}

// looksLikeLocalVarDecl performs a non-mutating forward scan deciding
// whether the statement starting here is a local variable declaration
// rather than an expression statement. The two grammars share a token
// prefix only in this one shape: a type immediately followed by another
// identifier only parses as a declarator name ("Foo bar"), never as an
// expression — an assignment, call, or field access always has a
// non-identifier second token.
func (p *parser) looksLikeLocalVarDecl() bool {
	if p.atIdentText("var") {
		return p.peekSignificant(1).Kind == TokIdent
	}
	if p.atIdentText("yield") {
		return false
	}
	idx, ok := p.scanTypeRefShape(p.pos)
	if !ok {
		return false
	}
	idx = p.skipTriviaFrom(idx)
	return idx < len(p.tokens) && p.tokens[idx].Kind == TokIdent
}

// scanTypeRefShape advances a non-mutating token-index scan past one
// type-ref shape (a primitive keyword, or a dotted identifier chain with
// optional generic args, optionally followed by array brackets) starting
// at idx. It reports the index just past the shape, or ok=false if idx
// doesn't start a type ref at all. Shared by looksLikeLocalVarDecl and
// looksLikeCast, the two places this grammar needs to peek past a type
// without committing to parsing it.
func (p *parser) scanTypeRefShape(idx int) (int, bool) {
	idx = p.skipTriviaFrom(idx)
	if idx >= len(p.tokens) {
		return idx, false
	}
	if isPrimitiveTypeKeyword(p.tokens[idx].Kind) {
		idx++
	} else if p.tokens[idx].Kind == TokIdent {
		idx++
		for {
			idx = p.skipTriviaFrom(idx)
			if idx < len(p.tokens) && p.tokens[idx].Kind == TokLt {
				depth := 0
				for idx < len(p.tokens) {
					switch p.tokens[idx].Kind {
					case TokLt:
						depth++
					case TokGt:
						depth--
					case TokShr:
						depth -= 2
					case TokUshr:
						depth -= 3
					}
					idx++
					if depth <= 0 {
						break
					}
				}
				continue
			}
			if idx < len(p.tokens) && p.tokens[idx].Kind == TokDot {
				next := p.skipTriviaFrom(idx + 1)
				if next < len(p.tokens) && p.tokens[next].Kind == TokIdent {
					idx = next + 1
					continue
				}
			}
			break
		}
	} else {
		return idx, false
	}
	for {
		idx = p.skipTriviaFrom(idx)
		if idx+1 < len(p.tokens) && p.tokens[idx].Kind == TokLBracket && p.tokens[idx+1].Kind == TokRBracket {
			idx += 2
			continue
		}
		break
	}
	return idx, true
}

func (p *parser) skipTriviaFrom(idx int) int {
	for idx < len(p.tokens) && p.tokens[idx].Kind.IsTrivia() {
		idx++
	}
	return idx
}

// parseLocalVariableDeclaration parses `<type> name [= init][, name2 ...];`,
// mirroring parseFieldDeclaratorRest's declarator-list shape at
// statement level instead of member level.
func (p *parser) parseLocalVariableDeclaration() {
	p.builder.StartNode()
	if p.atIdentText("var") {
		p.builder.StartNode()
		p.bump()
		p.builder.FinishNode(NodeTypeRef)
	} else {
		p.parseTypeRef()
	}
	p.parseVariableDeclarator()
	for p.at(TokComma) {
		p.bump()
		p.parseVariableDeclarator()
	}
	p.expectSemi()
	p.builder.FinishNode(NodeLocalVariableDeclaration)
}

func (p *parser) parseVariableDeclarator() {
	p.builder.StartNode()
	p.expect(TokIdent)
	for p.at(TokLBracket) {
		p.bump()
		if p.at(TokRBracket) {
			p.bump()
		}
	}
	if p.at(TokAssign) {
		p.bump()
		p.parseExpression()
	}
	p.builder.FinishNode(NodeVariableDeclarator)
}

func (p *parser) parseIfStatement() {
	p.builder.StartNode()
	p.bump() // 'if'
	p.expect(TokLParen)
	p.parseExpression()
	p.expect(TokRParen)
	p.parseStatement()
	if p.at(TokElse) {
		p.bump()
		p.parseStatement()
	}
	p.builder.FinishNode(NodeIfStatement)
}

func (p *parser) parseWhileStatement() {
	p.builder.StartNode()
	p.bump() // 'while'
	p.expect(TokLParen)
	p.parseExpression()
	p.expect(TokRParen)
	p.parseStatement()
	p.builder.FinishNode(NodeWhileStatement)
}

func (p *parser) parseReturnStatement() {
	p.builder.StartNode()
	p.bump() // 'return'
	if !p.at(TokSemicolon) {
		p.parseExpression()
	}
	p.expectSemi()
	p.builder.FinishNode(NodeReturnStatement)
}

func (p *parser) parseThrowStatement() {
	p.builder.StartNode()
	p.bump() // 'throw'
	p.parseExpression()
	p.expectSemi()
	p.builder.FinishNode(NodeThrowStatement)
}

// parseTryStatement models `try [(resources)] block catch* finally?`.
// Try-with-resources's resource list is consumed opaquely: the
// resources it declares aren't locals this minimal grammar tracks.
func (p *parser) parseTryStatement() {
	p.builder.StartNode()
	p.bump() // 'try'
	if p.at(TokLParen) {
		p.skipBalanced(TokLParen, TokRParen)
	}
	p.parseBlock()
	for p.at(TokCatch) {
		p.parseCatchClause()
	}
	if p.at(TokFinally) {
		p.builder.StartNode()
		p.bump()
		p.parseBlock()
		p.builder.FinishNode(NodeFinallyStatement)
	}
	p.builder.FinishNode(NodeTryStatement)
}

func (p *parser) parseCatchClause() {
	p.builder.StartNode()
	p.bump() // 'catch'
	p.expect(TokLParen)
	p.parseModifiers() // 'final'
	p.parseTypeRef()
	for p.at(TokOr) { // multi-catch: A | B
		p.bump()
		p.parseTypeRef()
	}
	if p.at(TokIdent) {
		p.bump()
	}
	p.expect(TokRParen)
	p.parseBlock()
	p.builder.FinishNode(NodeCatchClause)
}

// --- expressions ---

var assignmentOps = map[SyntaxKind]bool{
	TokAssign: true, TokPlusAssign: true, TokMinusAssign: true, TokStarAssign: true,
	TokSlashAssign: true, TokAmpAssign: true, TokOrAssign: true, TokCaretAssign: true,
	TokPercentAssign: true, TokShlAssign: true, TokShrAssign: true, TokUshrAssign: true,
}

// binaryPrecedence ranks Java's binary operators from loosest to
// tightest (JLS 15.16-15.24); instanceof sits beside the relational
// operators and is handled alongside them in parseBinaryExpression.
var binaryPrecedence = map[SyntaxKind]int{
	TokOrOr:    1,
	TokAndAnd:  2,
	TokOr:      3,
	TokCaret:   4,
	TokAmp:     5,
	TokEq:      6,
	TokNe:      6,
	TokLt:      7,
	TokGt:      7,
	TokLe:      7,
	TokGe:      7,
	TokShl:     8,
	TokShr:     8,
	TokUshr:    8,
	TokPlus:    9,
	TokMinus:   9,
	TokStar:    10,
	TokSlash:   10,
	TokPercent: 10,
}

const instanceofPrecedence = 7

func (p *parser) parseExpression() {
	p.parseAssignmentExpression()
}

func (p *parser) parseAssignmentExpression() {
	cp := p.builder.Checkpoint()
	p.parseConditionalExpression()
	if assignmentOps[p.cur().Kind] {
		p.builder.StartNodeAt(cp)
		p.bump()
		p.parseAssignmentExpression()
		p.builder.FinishNode(NodeAssignmentExpr)
	}
}

func (p *parser) parseConditionalExpression() {
	cp := p.builder.Checkpoint()
	p.parseBinaryExpression(1)
	if p.at(TokQuestion) {
		p.builder.StartNodeAt(cp)
		p.bump()
		p.parseAssignmentExpression()
		p.expect(TokColon)
		p.parseConditionalExpression()
		p.builder.FinishNode(NodeConditionalExpr)
	}
}

// parseBinaryExpression climbs Java's binary-operator precedence table,
// folding each left operand into a new parent via a builder checkpoint
// (it is already on the tree by the time the operator token is seen).
func (p *parser) parseBinaryExpression(minPrec int) {
	cp := p.builder.Checkpoint()
	p.parseUnaryExpression()
	for {
		if p.at(TokInstanceof) {
			if minPrec > instanceofPrecedence {
				return
			}
			p.builder.StartNodeAt(cp)
			p.bump()
			p.parseTypeRef()
			if p.at(TokIdent) { // pattern variable, e.g. `instanceof String s`
				p.bump()
			}
			p.builder.FinishNode(NodeInstanceOfExpr)
			cp = p.builder.Checkpoint()
			continue
		}
		prec, ok := binaryPrecedence[p.cur().Kind]
		if !ok || prec < minPrec {
			return
		}
		p.builder.StartNodeAt(cp)
		p.bump()
		p.parseBinaryExpression(prec + 1)
		p.builder.FinishNode(NodeBinaryExpr)
		cp = p.builder.Checkpoint()
	}
}

var unaryPrefixOps = map[SyntaxKind]bool{
	TokPlus: true, TokMinus: true, TokBang: true, TokTilde: true,
	TokPlusPlus: true, TokMinusMinus: true,
}

func (p *parser) parseUnaryExpression() {
	if unaryPrefixOps[p.cur().Kind] {
		p.builder.StartNode()
		p.bump()
		p.parseUnaryExpression()
		p.builder.FinishNode(NodeUnaryExpr)
		return
	}
	if p.at(TokLParen) && p.looksLikeCast() {
		p.builder.StartNode()
		p.bump()
		p.parseTypeRef()
		p.expect(TokRParen)
		p.parseUnaryExpression()
		p.builder.FinishNode(NodeCastExpr)
		return
	}
	p.parsePostfixExpression()
}

// looksLikeCast disambiguates `(Type) expr` from a parenthesized
// expression `(expr)`. A reference-type cast is only recognized before
// an operand-starting token; a primitive-type cast additionally allows
// unary +/-/++/-- to follow, since `(int) -x` is unambiguous (the JLS
// rejects `(RefType) -x` as a cast, treating it instead as subtraction).
func (p *parser) looksLikeCast() bool {
	idx := p.skipTriviaFrom(p.pos)
	if idx >= len(p.tokens) || p.tokens[idx].Kind != TokLParen {
		return false
	}
	afterParen := p.skipTriviaFrom(idx + 1)
	primitive := afterParen < len(p.tokens) && isPrimitiveTypeKeyword(p.tokens[afterParen].Kind)

	idx, ok := p.scanTypeRefShape(idx + 1)
	if !ok {
		return false
	}
	idx = p.skipTriviaFrom(idx)
	if idx >= len(p.tokens) || p.tokens[idx].Kind != TokRParen {
		return false
	}
	idx = p.skipTriviaFrom(idx + 1)
	if idx >= len(p.tokens) {
		return false
	}
	switch p.tokens[idx].Kind {
	case TokIdent, TokIntLiteral, TokLongLiteral, TokFloatLiteral, TokDoubleLiteral,
		TokCharLiteral, TokStringLiteral, TokTextBlockLiteral, TokTrue, TokFalse, TokNull,
		TokLParen, TokThis, TokNew, TokBang, TokTilde:
		return true
	case TokPlus, TokMinus, TokPlusPlus, TokMinusMinus:
		return primitive
	default:
		return false
	}
}

// parsePostfixExpression handles the left-recursive suffixes (field
// access, method calls, array indexing, post-inc/dec) that a bottom-up
// builder can only attach by wrapping the already-built primary via a
// checkpoint.
func (p *parser) parsePostfixExpression() {
	cp := p.builder.Checkpoint()
	p.parsePrimaryExpression()
	for {
		switch {
		case p.at(TokDot):
			p.builder.StartNodeAt(cp)
			p.bump()
			p.expect(TokIdent)
			if p.at(TokLParen) {
				p.parseArgumentList()
				p.builder.FinishNode(NodeMethodCallExpr)
			} else {
				p.builder.FinishNode(NodeFieldAccessExpr)
			}
			cp = p.builder.Checkpoint()
		case p.at(TokLBracket):
			p.builder.StartNodeAt(cp)
			p.bump()
			p.parseExpression()
			p.expect(TokRBracket)
			p.builder.FinishNode(NodeArrayAccessExpr)
			cp = p.builder.Checkpoint()
		case p.at(TokPlusPlus), p.at(TokMinusMinus):
			p.builder.StartNodeAt(cp)
			p.bump()
			p.builder.FinishNode(NodePostfixExpr)
			cp = p.builder.Checkpoint()
		default:
			return
		}
	}
}

func (p *parser) parseArgumentList() {
	p.builder.StartNode()
	p.expect(TokLParen)
	for !p.at(TokRParen) && !p.at(TokEOF) {
		p.parseExpression()
		if p.at(TokComma) {
			p.bump()
			continue
		}
		break
	}
	p.expect(TokRParen)
	p.builder.FinishNode(NodeArgumentList)
}

func (p *parser) parsePrimaryExpression() {
	switch {
	case p.at(TokIntLiteral), p.at(TokLongLiteral), p.at(TokFloatLiteral), p.at(TokDoubleLiteral),
		p.at(TokCharLiteral), p.at(TokStringLiteral), p.at(TokTextBlockLiteral),
		p.at(TokTrue), p.at(TokFalse), p.at(TokNull):
		p.builder.StartNode()
		p.bump()
		p.builder.FinishNode(NodeLiteralExpr)
	case p.at(TokThis):
		p.builder.StartNode()
		p.bump()
		if p.at(TokLParen) { // this(...) constructor delegation
			p.parseArgumentList()
		}
		p.builder.FinishNode(NodeThisExpr)
	case p.at(TokSuper):
		p.builder.StartNode()
		p.bump()
		if p.at(TokLParen) {
			p.parseArgumentList()
		} else if p.at(TokDot) {
			p.bump()
			p.expect(TokIdent)
			if p.at(TokLParen) {
				p.parseArgumentList()
			}
		}
		p.builder.FinishNode(NodeSuperExpr)
	case p.at(TokNew):
		p.parseObjectCreationExpression()
	case p.at(TokLParen):
		p.builder.StartNode()
		p.bump()
		p.parseExpression()
		p.expect(TokRParen)
		p.builder.FinishNode(NodeParenExpr)
	case isPrimitiveTypeKeyword(p.cur().Kind):
		// reachable only via a class literal (`int.class`); class
		// literals aren't modeled separately, so this is treated as an
		// opaque literal-shaped leaf.
		p.builder.StartNode()
		p.bump()
		if p.at(TokDot) {
			p.bump()
			if p.at(TokIdent) {
				p.bump()
			}
		}
		p.builder.FinishNode(NodeLiteralExpr)
	case p.at(TokIdent):
		p.builder.StartNode()
		p.bump()
		if p.at(TokLParen) {
			p.parseArgumentList()
			p.builder.FinishNode(NodeMethodCallExpr)
		} else {
			p.builder.FinishNode(NodeNameExpr)
		}
	default:
		p.builder.StartNode()
		p.errorHere("expected an expression")
		if !p.at(TokEOF) {
			p.bump()
		}
		p.builder.FinishNode(NodeErrorNode)
	}
}

// parseObjectCreationExpression parses `new Type(args)` and, minimally,
// `new Type[...]` array creation; it builds the created type's
// NodeTypeRef itself rather than delegating to parseTypeRef, which would
// otherwise greedily consume a following `[` as a type-level array
// suffix instead of leaving it for the dimension-expression loop below.
func (p *parser) parseObjectCreationExpression() {
	p.builder.StartNode()
	p.bump() // 'new'
	p.skipTypeParamsOrArgsIfPresent() // explicit type witness, e.g. `new <String>Foo()`

	p.builder.StartNode()
	if isPrimitiveTypeKeyword(p.cur().Kind) {
		p.bump()
	} else if p.at(TokIdent) {
		p.bump()
		for p.at(TokDot) {
			p.bump()
			if p.at(TokIdent) {
				p.bump()
			} else {
				break
			}
		}
		p.skipTypeParamsOrArgsIfPresent()
	} else {
		p.errorHere("expected a type")
	}
	p.builder.FinishNode(NodeTypeRef)

	switch {
	case p.at(TokLParen):
		p.parseArgumentList()
		if p.at(TokLBrace) { // anonymous class body, not modeled structurally
			p.skipBalanced(TokLBrace, TokRBrace)
		}
	case p.at(TokLBracket): // array creation; dimension exprs aren't modeled structurally
		for p.at(TokLBracket) {
			p.bump()
			if !p.at(TokRBracket) {
				p.parseExpression()
			}
			p.expect(TokRBracket)
		}
		if p.at(TokLBrace) {
			p.skipBalanced(TokLBrace, TokRBrace)
		}
	}
	p.builder.FinishNode(NodeObjectCreationExpr)
}

// --- module-info.java ---

func (p *parser) parseModuleDeclaration() {
	p.builder.StartNode()
	if p.atIdentText("open") {
		p.bump()
	}
	p.bump() // 'module'
	p.parseQualifiedNameRef()
	if !p.expect(TokLBrace) {
		p.builder.FinishNode(NodeModuleDeclaration)
		return
	}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		p.parseModuleDirective()
	}
	p.expect(TokRBrace)
	p.builder.FinishNode(NodeModuleDeclaration)
}

func (p *parser) parseModuleDirective() {
	p.builder.StartNode()
	switch {
	case p.atIdentText("requires"):
		p.bump()
		for p.atIdentText("transitive") || p.at(TokStatic) {
			p.bump()
		}
		p.parseQualifiedNameRef()
	case p.atIdentText("exports"), p.atIdentText("opens"):
		p.bump()
		p.parseQualifiedNameRef()
		if p.atIdentText("to") {
			p.bump()
			p.parseQualifiedNameRef()
			for p.at(TokComma) {
				p.bump()
				p.parseQualifiedNameRef()
			}
		}
	case p.atIdentText("uses"):
		p.bump()
		p.parseQualifiedNameRef()
	case p.atIdentText("provides"):
		p.bump()
		p.parseQualifiedNameRef()
		if p.atIdentText("with") {
			p.bump()
			p.parseQualifiedNameRef()
			for p.at(TokComma) {
				p.bump()
				p.parseQualifiedNameRef()
			}
		}
	default:
		p.errorHere("expected a module directive (requires/exports/opens/uses/provides)")
		p.recoverToStatementBoundary()
		p.builder.FinishNode(NodeModuleDirective)
		return
	}
	p.expectSemi()
	p.builder.FinishNode(NodeModuleDirective)
}
