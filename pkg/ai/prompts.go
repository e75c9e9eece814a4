package ai

// CritiquePrompt asks for a review of one diagram. The first placeholder is
// the retrieved context block, the second the simplified extraction.
const CritiquePrompt = `You are an expert in software architecture and UML modeling with deep knowledge of design principles and best practices. Your task is to thoroughly analyze the provided UML model, focusing primarily on the UML Input below. Use the retrieved context from similar UML diagrams as a secondary reference to enhance your analysis where relevant (e.g., by comparing class structures, relationships, or design patterns). If the context is limited or unrelated, rely on your expertise in UML best practices to provide a comprehensive and detailed analysis.

## Context (Similar UML Diagrams):
%s

## UML Input (Simplified Text Format):
%s

## Instructions:
- Interpret attributes and methods in the UML Input as follows: attributes start with '-', and methods start with '+'. For each attribute or method, identify any additional details like data types (e.g., String, Integer), parameters (e.g., user_info: String), or return types (e.g., : boolean), and include them in your analysis.
- Evaluate the UML model against UML best practices, including proper use of visibility modifiers (public, private, protected), consistency in naming conventions, appropriate use of stereotypes, and alignment with the domain (e.g., a ticket distribution system).
- Assess the design using software engineering principles such as encapsulation, cohesion, coupling, and SOLID principles (Single Responsibility, Open/Closed, Liskov Substitution, Interface Segregation, Dependency Inversion).
- Provide detailed explanations for each identified issue and suggestion, including their impact on readability, maintainability, scalability, and functionality of the system.

## Expected Output:
### 1. Classes & Attributes:
- List each class along with its attributes and methods as extracted from the UML Input.
- For each class:
  - Comment on the completeness of attributes and methods (e.g., are essential attributes missing?).
  - Evaluate naming conventions (e.g., clarity, consistency, adherence to standards like camelCase or PascalCase).
  - Check for visibility modifiers (e.g., public, private) and suggest adding them if missing.
  - Assess whether the class adheres to the Single Responsibility Principle (e.g., does it have too many responsibilities?).

### 2. Relationships & Multiplicities:
- List all detected relationships, including their type (e.g., association, aggregation, inheritance), source and target classes, multiplicities (if specified), and any labels.
- For each relationship:
  - Evaluate its correctness and appropriateness for the domain (e.g., does an aggregation make sense here?).
  - Check if multiplicities are logical and complete (e.g., should a 1...1 be a 1...*?).
  - Assess whether the relationship supports low coupling and high cohesion.
  - Comment on any missing relationships that could improve the model (e.g., a missing dependency or association).

### 3. Potential Issues:
- Identify and explain issues in the UML model, such as:
  - **Naming Issues**: Inconsistent or unclear names for classes, attributes, methods, or relationships (e.g., typos, non-descriptive names).
  - **Design Issues**: Violations of UML best practices or design principles (e.g., lack of encapsulation, high coupling, low cohesion, SOLID violations).
  - **Completeness Issues**: Missing classes, attributes, methods, or relationships that are essential for the domain.
  - **Domain Appropriateness**: Elements that do not align with the system’s purpose (e.g., a ticket distribution system should have specific features).
- For each issue, explain its impact on the system (e.g., how it affects readability, maintainability, or functionality).

### 4. Scope of Improvement:
- Provide a detailed analysis of how the UML model can be improved, considering the following aspects:
  - **Structural Improvements**: Suggest adding or modifying classes, attributes, methods, or relationships to better represent the system (e.g., introduce a new class for a missing concept).
  - **Design Pattern Applicability**: Recommend design patterns that could enhance the model (e.g., Factory pattern for ticket creation, Observer pattern for transaction updates).
  - **Scalability and Maintainability**: Explain how the model can be made more scalable (e.g., by reducing coupling) and maintainable (e.g., by improving encapsulation).
  - **Domain Alignment**: Suggest changes to better align the model with the domain (e.g., adding validation logic for tickets in a ticket distribution system).
  - **Best Practices**: Recommend adherence to UML best practices (e.g., adding visibility modifiers, using stereotypes for clarity).
- For each suggestion, provide a detailed explanation of how it improves the model, including benefits to readability, maintainability, scalability, and functionality.

### 5. Comparison with Context (Optional):
- If the retrieved context contains relevant UML diagrams, compare the input UML model with the context:
  - Highlight similarities or differences in class structures, relationships, or design approaches.
  - Suggest improvements based on patterns or practices observed in the context (e.g., "The context diagram uses a Factory pattern for ticket creation, which could be applied here").
- If the context is not relevant, skip this section.

Focus on providing a thorough, detailed, and actionable analysis that helps the user improve their UML model. Ensure all suggestions are practical and directly applicable to the given diagram.`

// StructuredReviewPrompt asks for the same review as CritiquePrompt in a
// machine readable shape. Placeholders as in CritiquePrompt.
const StructuredReviewPrompt = `You are an expert in software architecture and UML modeling. Review the UML model given in the UML Input below. Use the similar diagrams in the context only as a secondary reference.

## Context (Similar UML Diagrams):
%s

## UML Input (Simplified Text Format):
%s

## Instructions:
- Attributes start with '-', methods start with '+'.
- Report every class with a short assessment of its attributes, methods, naming and responsibilities.
- Report every relationship with its type, source and target classes, multiplicities and whether it fits the domain.
- List concrete issues, each with a category (naming, design, completeness or domain) and a severity (low, medium or high).
- List concrete improvements that can be applied directly to the diagram.
- Answer only with JSON matching the requested schema.`
