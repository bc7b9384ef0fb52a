package emitter

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/types"
)

const initFunctionName = "maps.init"

// Emitter lowers a concretised translation unit to an LLVM module. Every
// binding becomes a global; bindings with a known value get a constant
// initialiser and the rest are computed by an init function.
type Emitter struct {
	eh    compiler_errors.ErrorHandler
	unit  *ast.TranslationUnit
	arena *ast.Arena

	typesMap   map[string]llvm.Type
	globalsMap map[*ast.Definition]llvm.Value
	funcsMap   map[*ast.Definition]llvm.Value

	lets        map[*ast.Definition]*ast.LetStmt
	lowerErrors map[*ast.Definition]error
	pending     []*ast.LetStmt
	initialized map[*ast.Definition]bool

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	currentFunc    llvm.Value
	nextBasicBlock llvm.BasicBlock
}

func NewEmitter(eh compiler_errors.ErrorHandler, unit *ast.TranslationUnit) *Emitter {
	context := llvm.NewContext()
	return &Emitter{
		eh:    eh,
		unit:  unit,
		arena: unit.Arena,

		typesMap:   make(map[string]llvm.Type),
		globalsMap: make(map[*ast.Definition]llvm.Value),
		funcsMap:   make(map[*ast.Definition]llvm.Value),

		lets:        make(map[*ast.Definition]*ast.LetStmt),
		lowerErrors: make(map[*ast.Definition]error),
		pending:     make([]*ast.LetStmt, 0),
		initialized: make(map[*ast.Definition]bool),

		context: context,
		module:  context.NewModule(unit.FileName),
		builder: context.NewBuilder(),
	}
}

// Emit builds the module. Bindings the backend cannot lower are reported and
// left out.
func (e *Emitter) Emit() llvm.Module {
	e.declareTypes()
	e.declareExterns()
	e.declareGlobals()
	e.emitInitFunction()
	e.emitMain()

	if err := llvm.VerifyModule(e.module, llvm.ReturnStatusAction); err != nil {
		e.eh.AddError(compiler_errors.NewLocatedError(
			fmt.Sprintf("generated module is invalid: %v", err),
			e.unit.FileName, 0, 0, 0,
		))
	}

	return e.module
}

// Dispose releases the builder and the context. The module is owned by the
// context and must not be used afterwards.
func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.context.Dispose()
}

func (e *Emitter) declareTypes() {
	e.typesMap[types.Int.Name()] = e.context.Int64Type()
	e.typesMap[types.Float.Name()] = e.context.DoubleType()
	e.typesMap[types.Bool.Name()] = e.context.Int1Type()
	e.typesMap[types.String.Name()] = llvm.PointerType(e.context.Int8Type(), 0)
	e.typesMap[types.Void.Name()] = e.context.VoidType()
}

func (e *Emitter) llvmTypeExistsForType(t types.Type) bool {
	if t == nil {
		return false
	}

	if t.IsFunction() {
		for i := 0; i < t.Arity(); i++ {
			if !e.llvmTypeExistsForType(t.ParamType(i)) {
				return false
			}
		}
		return e.llvmTypeExistsForType(t.ReturnType())
	}

	_, ok := e.typesMap[t.Name()]
	return ok
}

func (e *Emitter) getLlvmTypeForType(t types.Type) llvm.Type {
	return e.typesMap[t.Name()]
}

func (e *Emitter) getLlvmFunctionType(t types.Type) llvm.Type {
	params := make([]llvm.Type, 0, t.Arity())
	for i := 0; i < t.Arity(); i++ {
		params = append(params, e.getLlvmTypeForType(t.ParamType(i)))
	}
	return llvm.FunctionType(e.getLlvmTypeForType(t.ReturnType()), params, false)
}

func (e *Emitter) declareExterns() {
	for _, stmt := range e.unit.Stmts {
		extern, ok := stmt.(*ast.ExternStmt)
		if !ok || extern.Def == nil {
			continue
		}

		def := extern.Def
		location := ast.LocationOf(extern.StartToken)
		if !e.llvmTypeExistsForType(def.Type) {
			e.unsupported(fmt.Sprintf("extern %s of type %s", def.Name, def.Type.Name()), location)
			continue
		}

		if !def.Type.IsFunction() {
			global := llvm.AddGlobal(e.module, e.getLlvmTypeForType(def.Type), def.Name)
			global.SetLinkage(llvm.ExternalLinkage)
			e.globalsMap[def] = global
			continue
		}

		funcValue := llvm.AddFunction(e.module, def.Name, e.getLlvmFunctionType(def.Type))
		e.funcsMap[def] = funcValue
	}
}

func (e *Emitter) declareGlobals() {
	order := make([]*ast.LetStmt, 0)
	for _, stmt := range e.unit.Stmts {
		let, ok := stmt.(*ast.LetStmt)
		if !ok || let.Def == nil {
			continue
		}

		def := let.Def
		body := e.arena.MustGet(let.Value)
		if body.Kind == ast.KindSyntaxError {
			continue
		}

		if def.Type.IsFunction() || !e.llvmTypeExistsForType(def.Type) {
			e.unsupported(fmt.Sprintf("binding %s of type %s", def.Name, def.Type.Name()), body.Location)
			continue
		}

		e.lets[def] = let
		order = append(order, let)
	}

	for _, let := range order {
		def := let.Def
		if e.lowerable(def) != nil {
			continue
		}

		llvmType := e.getLlvmTypeForType(def.Type)
		global := llvm.AddGlobal(e.module, llvmType, globalName(def))
		e.globalsMap[def] = global

		body := e.arena.MustGet(let.Value)
		if value, ok := body.ConstantValue(); ok && body.Kind == ast.KindKnownValue {
			global.SetInitializer(e.constValue(value, def.Type))
			global.SetGlobalConstant(true)
			e.initialized[def] = true
			continue
		}

		global.SetInitializer(llvm.ConstNull(llvmType))
		e.pending = append(e.pending, let)
	}
}

// globalName keeps the name main free for the entry point.
func globalName(def *ast.Definition) string {
	if def.Name == "main" {
		return "main.value"
	}
	return def.Name
}

// emitInitFunction computes every binding without a known value, each after
// the bindings it reads.
func (e *Emitter) emitInitFunction() {
	if len(e.pending) == 0 {
		return
	}

	initFunction := llvm.AddFunction(e.module, initFunctionName, llvm.FunctionType(e.context.VoidType(), nil, false))
	initFunction.SetLinkage(llvm.InternalLinkage)
	e.addFunctionAttrs(initFunction)
	e.currentFunc = initFunction

	entryBasicBlock := e.context.AddBasicBlock(initFunction, "entry")
	exitBasicBlock := e.context.AddBasicBlock(initFunction, "exit")
	e.nextBasicBlock = exitBasicBlock

	e.builder.SetInsertPointAtEnd(exitBasicBlock)
	e.builder.CreateRetVoid()

	e.builder.SetInsertPointAtEnd(entryBasicBlock)
	for _, let := range e.pending {
		e.initBinding(let.Def)
	}
	e.builder.CreateBr(exitBasicBlock)

	e.currentFunc = llvm.Value{}
	e.nextBasicBlock = llvm.BasicBlock{}
}

func (e *Emitter) initBinding(def *ast.Definition) {
	if e.initialized[def] {
		return
	}
	e.initialized[def] = true

	body := e.lets[def].Value
	e.initDependencies(body)

	value := e.emitExpr(body)
	e.builder.CreateStore(value, e.globalsMap[def])
}

// initDependencies stores every binding h reads before h is evaluated, so
// that no store ends up inside a conditional block.
func (e *Emitter) initDependencies(h ast.Handle) {
	expr := e.arena.MustGet(h)

	if def, ok := expr.Definition(); ok && expr.Kind == ast.KindReference && def.Kind == ast.DefinitionLet {
		e.initBinding(def)
		return
	}

	if expr.IsCall() {
		for _, arg := range expr.CallPayload().Args {
			e.initDependencies(arg)
		}
	}
}

// emitMain defines "i64 main()" when the program binds main to an Int.
func (e *Emitter) emitMain() {
	var mainDef *ast.Definition
	for def := range e.globalsMap {
		if def.Name == "main" && def.Kind == ast.DefinitionLet {
			mainDef = def
		}
	}
	if mainDef == nil {
		return
	}
	if !mainDef.Type.SameAs(types.Int) {
		e.unsupported(fmt.Sprintf("main of type %s, main must be an Int", mainDef.Type.Name()), mainDef.Location)
		return
	}

	int64Type := e.getLlvmTypeForType(types.Int)
	mainFunction := llvm.AddFunction(e.module, "main", llvm.FunctionType(int64Type, nil, false))
	e.addFunctionAttrs(mainFunction)

	entryBasicBlock := e.context.AddBasicBlock(mainFunction, "entry")
	e.builder.SetInsertPointAtEnd(entryBasicBlock)

	if initFunction := e.module.NamedFunction(initFunctionName); !initFunction.IsNil() {
		e.builder.CreateCall(initFunction.GlobalValueType(), initFunction, nil, "")
	}

	result := e.builder.CreateLoad(int64Type, e.globalsMap[mainDef], "main")
	e.builder.CreateRet(result)
}

func (e *Emitter) addFunctionAttrs(funcValue llvm.Value) {
	framePointerAttr := e.context.CreateStringAttribute("frame-pointer", "all")
	noTrappingMathAttr := e.context.CreateStringAttribute("no-trapping-math", "true")
	stackProtectorBufferSizeAttr := e.context.CreateStringAttribute("stack-protector-buffer-size", "8")
	funcValue.AddFunctionAttr(framePointerAttr)
	funcValue.AddFunctionAttr(noTrappingMathAttr)
	funcValue.AddFunctionAttr(stackProtectorBufferSizeAttr)
}

func (e *Emitter) constValue(value any, t types.Type) llvm.Value {
	switch v := value.(type) {
	case int64:
		return llvm.ConstInt(e.getLlvmTypeForType(types.Int), uint64(v), true)
	case float64:
		return llvm.ConstFloat(e.getLlvmTypeForType(types.Float), v)
	case bool:
		var intValue uint64
		if v {
			intValue = 1
		}
		return llvm.ConstInt(e.getLlvmTypeForType(types.Bool), intValue, false)
	case string:
		return e.constString(v)
	}

	panic(fmt.Sprintf("constValue(): unexpected value %T for %s", value, t.Name()))
}

func (e *Emitter) constString(value string) llvm.Value {
	data := e.context.ConstString(value, true)
	global := llvm.AddGlobal(e.module, data.Type(), ".str")
	global.SetInitializer(data)
	global.SetGlobalConstant(true)
	global.SetLinkage(llvm.PrivateLinkage)
	global.SetUnnamedAddr(true)
	return global
}

func (e *Emitter) unsupported(what string, location ast.Location) {
	e.eh.AddError(&UnsupportedError{What: what, Location: location})
}

// dependencyError stops a binding that reads a binding which could not be
// lowered. Only the first failure is reported.
type dependencyError struct {
	name string
}

func (e *dependencyError) Error() string {
	return fmt.Sprintf("depends on '%s', which could not be lowered", e.name)
}
