// Package compiler translates "result = <expr>" over the variables a..g
// into a DATA/CODE program for the two-register 8-bit machine in pkg/cpu.
//
// Pipeline: expression → Tokenize → ToPostfix → CodeGen → Emit
//
// Arithmetic is signed 8-bit. Overflow and division by zero are detected
// by the generated program at run time: it sets the error cell to 1 and
// stores 0 to result.
package compiler
