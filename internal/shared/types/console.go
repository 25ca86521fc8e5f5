package types

// Logger é a interface mínima de log usada pelos casos de uso.
type Logger interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
}

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Logger

	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}
