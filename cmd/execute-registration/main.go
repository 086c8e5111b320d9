package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/primegourmet/phone-auth/internal/infra/app"
	lambdatransport "github.com/primegourmet/phone-auth/internal/transport/lambda"
)

func main() {
	runtime, err := app.NewLambdaRuntime(context.Background())
	if err != nil {
		log.Fatalf("bootstrap execute-registration: %v", err)
	}

	handler := lambdatransport.NewExecuteRegistrationHandler(runtime.RegistrationService(), runtime.Logger)
	lambda.Start(handler.Handle)
}
