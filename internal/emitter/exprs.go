package emitter

import (
	"fmt"
	"math"

	"tinygo.org/x/go-llvm"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/types"
)

// lowered lists the builtins the backend has instructions for.
var lowered = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
	"!": true, "~": true, "++": true, "--": true,
	"abs": true, "max": true, "min": true, "not": true,
}

// lowerable reports why the binding cannot be lowered, nil when it can. The
// first binding that fails is reported, bindings reading it fail silently.
func (e *Emitter) lowerable(def *ast.Definition) error {
	if err, ok := e.lowerErrors[def]; ok {
		return err
	}
	e.lowerErrors[def] = &dependencyError{name: def.Name}

	err := e.check(e.lets[def].Value)
	if unsupported, ok := err.(*UnsupportedError); ok {
		e.eh.AddError(unsupported)
	}
	e.lowerErrors[def] = err
	return err
}

func (e *Emitter) check(h ast.Handle) error {
	expr := e.arena.MustGet(h)

	switch expr.Kind {
	case ast.KindKnownValue:
		return nil

	case ast.KindReference:
		def, _ := expr.Definition()
		switch def.Kind {
		case ast.DefinitionLet:
			if _, ok := e.lets[def]; !ok {
				return &dependencyError{name: def.Name}
			}
			if e.lowerable(def) != nil {
				return &dependencyError{name: def.Name}
			}
			return nil
		case ast.DefinitionExtern:
			if _, ok := e.globalsMap[def]; !ok {
				return &dependencyError{name: def.Name}
			}
			return nil
		}
		return &UnsupportedError{What: fmt.Sprintf("%s used as a value", def.Name), Location: expr.Location}

	case ast.KindCall:
		call := expr.CallPayload()
		callee := e.arena.MustGet(call.Callee)
		def, ok := callee.Definition()
		if !ok {
			return &UnsupportedError{What: "call of a computed function", Location: expr.Location}
		}

		for _, arg := range call.Args {
			if err := e.check(arg); err != nil {
				return err
			}
		}

		switch def.Kind {
		case ast.DefinitionBuiltin:
			if !lowered[def.Name] {
				return &UnsupportedError{What: fmt.Sprintf("builtin %s", def.Name), Location: callee.Location}
			}
		case ast.DefinitionExtern:
			if _, ok := e.funcsMap[def]; !ok {
				return &dependencyError{name: def.Name}
			}
		default:
			return &UnsupportedError{What: fmt.Sprintf("call of function binding %s", def.Name), Location: callee.Location}
		}
		return nil

	case ast.KindPartialCall, ast.KindPartialBinopCallLeft, ast.KindPartialBinopCallRight, ast.KindPartialBinopCallBoth:
		return &UnsupportedError{What: "partial application", Location: expr.Location}
	}

	return &UnsupportedError{What: expr.Kind.String(), Location: expr.Location}
}

// emitExpr lowers an expression that passed check.
func (e *Emitter) emitExpr(h ast.Handle) llvm.Value {
	expr := e.arena.MustGet(h)

	switch expr.Kind {
	case ast.KindKnownValue:
		value, _ := expr.ConstantValue()
		return e.constValue(value, expr.Type)

	case ast.KindReference:
		def, _ := expr.Definition()
		return e.builder.CreateLoad(e.getLlvmTypeForType(def.Type), e.globalsMap[def], "loadtmp")

	case ast.KindCall:
		call := expr.CallPayload()
		def, _ := e.arena.MustGet(call.Callee).Definition()
		if def.Kind == ast.DefinitionExtern {
			return e.emitExternCall(def, call.Args)
		}
		return e.emitBuiltinCall(def, call.Args, expr.Type)
	}

	panic(fmt.Sprintf("emitExpr(): unexpected %s", expr.Kind))
}

func (e *Emitter) emitExternCall(def *ast.Definition, argHandles []ast.Handle) llvm.Value {
	funcValue := e.funcsMap[def]
	args := make([]llvm.Value, 0, len(argHandles))
	for _, arg := range argHandles {
		args = append(args, e.emitExpr(arg))
	}
	return e.builder.CreateCall(funcValue.GlobalValueType(), funcValue, args, "")
}

func (e *Emitter) emitBuiltinCall(def *ast.Definition, args []ast.Handle, resultType types.Type) llvm.Value {
	operandType := e.arena.MustGet(args[0]).Type
	isFloat := operandType.SameAs(types.Float)

	if len(args) == 1 {
		return e.emitUnary(def, args[0], isFloat)
	}

	switch def.Name {
	case "&&":
		return e.emitShortCircuit(args[0], args[1], true)
	case "||":
		return e.emitShortCircuit(args[0], args[1], false)
	}

	leftValue := e.emitExpr(args[0])
	rightValue := e.emitExpr(args[1])

	switch def.Name {
	case "+":
		if isFloat {
			return e.builder.CreateFAdd(leftValue, rightValue, "addtmp")
		}
		return e.builder.CreateAdd(leftValue, rightValue, "addtmp")
	case "-":
		if isFloat {
			return e.builder.CreateFSub(leftValue, rightValue, "subtmp")
		}
		return e.builder.CreateSub(leftValue, rightValue, "subtmp")
	case "*":
		if isFloat {
			return e.builder.CreateFMul(leftValue, rightValue, "multmp")
		}
		return e.builder.CreateMul(leftValue, rightValue, "multmp")
	case "/":
		if isFloat {
			return e.builder.CreateFDiv(leftValue, rightValue, "divtmp")
		}
		return e.builder.CreateSDiv(leftValue, rightValue, "divtmp")
	case "%":
		if isFloat {
			return e.builder.CreateFRem(leftValue, rightValue, "remtmp")
		}
		return e.builder.CreateSRem(leftValue, rightValue, "remtmp")
	case "==":
		return e.emitCompare(llvm.IntEQ, llvm.FloatOEQ, leftValue, rightValue, isFloat, "eqtmp")
	case "!=":
		return e.emitCompare(llvm.IntNE, llvm.FloatONE, leftValue, rightValue, isFloat, "netmp")
	case "<":
		return e.emitCompare(llvm.IntSLT, llvm.FloatOLT, leftValue, rightValue, isFloat, "lttmp")
	case "<=":
		return e.emitCompare(llvm.IntSLE, llvm.FloatOLE, leftValue, rightValue, isFloat, "letmp")
	case ">":
		return e.emitCompare(llvm.IntSGT, llvm.FloatOGT, leftValue, rightValue, isFloat, "gttmp")
	case ">=":
		return e.emitCompare(llvm.IntSGE, llvm.FloatOGE, leftValue, rightValue, isFloat, "getmp")
	case "max":
		greater := e.emitCompare(llvm.IntSGT, llvm.FloatOGT, leftValue, rightValue, isFloat, "maxcmp")
		return e.builder.CreateSelect(greater, leftValue, rightValue, "maxtmp")
	case "min":
		less := e.emitCompare(llvm.IntSLT, llvm.FloatOLT, leftValue, rightValue, isFloat, "mincmp")
		return e.builder.CreateSelect(less, leftValue, rightValue, "mintmp")
	}

	panic(fmt.Sprintf("emitBuiltinCall(): no lowering for %s returning %s", def.Name, ast.TypeName(resultType)))
}

func (e *Emitter) emitUnary(def *ast.Definition, arg ast.Handle, isFloat bool) llvm.Value {
	value := e.emitExpr(arg)
	boolType := e.getLlvmTypeForType(types.Bool)
	intType := e.getLlvmTypeForType(types.Int)
	floatType := e.getLlvmTypeForType(types.Float)

	switch def.Name {
	case "-":
		if isFloat {
			return e.builder.CreateFNeg(value, "negtmp")
		}
		return e.builder.CreateNeg(value, "negtmp")
	case "!", "not":
		return e.builder.CreateXor(value, llvm.ConstInt(boolType, 1, false), "nottmp")
	case "~":
		return e.builder.CreateXor(value, llvm.ConstInt(intType, math.MaxUint64, true), "bnottmp")
	case "++":
		return e.builder.CreateAdd(value, llvm.ConstInt(intType, 1, true), "inctmp")
	case "--":
		return e.builder.CreateSub(value, llvm.ConstInt(intType, 1, true), "dectmp")
	case "abs":
		if isFloat {
			negative := e.builder.CreateFCmp(llvm.FloatOLT, value, llvm.ConstFloat(floatType, 0), "abscmp")
			return e.builder.CreateSelect(negative, e.builder.CreateFNeg(value, "negtmp"), value, "abstmp")
		}
		negative := e.builder.CreateICmp(llvm.IntSLT, value, llvm.ConstInt(intType, 0, true), "abscmp")
		return e.builder.CreateSelect(negative, e.builder.CreateNeg(value, "negtmp"), value, "abstmp")
	}

	panic(fmt.Sprintf("emitUnary(): no lowering for %s", def.Name))
}

func (e *Emitter) emitCompare(intPredicate llvm.IntPredicate, floatPredicate llvm.FloatPredicate, leftValue, rightValue llvm.Value, isFloat bool, name string) llvm.Value {
	if isFloat {
		return e.builder.CreateFCmp(floatPredicate, leftValue, rightValue, name)
	}
	return e.builder.CreateICmp(intPredicate, leftValue, rightValue, name)
}

// emitShortCircuit lowers && (isAnd) and || with the right operand evaluated
// only when it decides the result.
func (e *Emitter) emitShortCircuit(left, right ast.Handle, isAnd bool) llvm.Value {
	privNextBasicBlock := e.nextBasicBlock
	prefix := "or"
	if isAnd {
		prefix = "and"
	}

	checkBlock := e.context.AddBasicBlock(e.currentFunc, prefix+"check")
	rightBlock := e.context.AddBasicBlock(e.currentFunc, prefix+"right")
	mergeBlock := e.context.AddBasicBlock(e.currentFunc, prefix+"merge")

	checkBlock.MoveBefore(e.nextBasicBlock)
	rightBlock.MoveBefore(e.nextBasicBlock)
	mergeBlock.MoveBefore(e.nextBasicBlock)

	e.builder.CreateBr(checkBlock)
	e.builder.SetInsertPointAtEnd(checkBlock)

	e.nextBasicBlock = rightBlock
	leftValue := e.emitExpr(left)
	lastBlockInCheck := e.builder.GetInsertBlock()
	if isAnd {
		e.builder.CreateCondBr(leftValue, rightBlock, mergeBlock)
	} else {
		e.builder.CreateCondBr(leftValue, mergeBlock, rightBlock)
	}

	e.builder.SetInsertPointAtEnd(rightBlock)

	e.nextBasicBlock = mergeBlock
	rightValue := e.emitExpr(right)
	lastBlockInRight := e.builder.GetInsertBlock()
	e.builder.CreateBr(mergeBlock)

	e.builder.SetInsertPointAtEnd(mergeBlock)

	boolType := e.getLlvmTypeForType(types.Bool)
	var shortValue uint64
	if !isAnd {
		shortValue = 1
	}

	phi := e.builder.CreatePHI(boolType, prefix+"phi")
	phi.AddIncoming([]llvm.Value{llvm.ConstInt(boolType, shortValue, false)}, []llvm.BasicBlock{lastBlockInCheck})
	phi.AddIncoming([]llvm.Value{rightValue}, []llvm.BasicBlock{lastBlockInRight})

	e.nextBasicBlock = privNextBasicBlock

	return phi
}
